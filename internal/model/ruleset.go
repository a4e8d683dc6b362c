package model

import (
	"fmt"
	"sort"
)

// RuleSet is an immutable, ordered snapshot of classification rules.
// Order of the underlying slice is the insertion order used as the stable
// tie-break between rules of equal priority. A sync produces a new RuleSet
// rather than mutating one in place, so in-flight classification calls are
// never affected by a concurrent rule edit.
type RuleSet struct {
	byName map[string]int
	rules  []Rule
}

// NewRuleSet builds a rule set from rules in insertion order. Every rule is
// validated and active rules must have unique names; any violation rejects
// the whole set so an invalid rule can never be silently dropped or
// mis-ranked.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	byName := make(map[string]int, len(rules))
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if !r.Active {
			continue
		}
		if prev, ok := byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: %q defined at positions %d and %d", ErrDuplicateName, r.Name, prev, i)
		}
		byName[r.Name] = i
	}

	snapshot := make([]Rule, len(rules))
	copy(snapshot, rules)

	return &RuleSet{rules: snapshot, byName: byName}, nil
}

// Rules returns a copy of all rules in insertion order.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Active returns the active rules sorted for evaluation: priority descending,
// insertion order as the stable tie-break (first-defined wins among equals).
func (s *RuleSet) Active() []Rule {
	active := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Active {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})
	return active
}

// Lookup returns the active rule with the given name.
func (s *RuleSet) Lookup(name string) (Rule, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Rule{}, false
	}
	return s.rules[i], true
}

// Len returns the total number of rules, active or not.
func (s *RuleSet) Len() int {
	return len(s.rules)
}
