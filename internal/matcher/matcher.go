// Package matcher evaluates transaction descriptions against a rule set.
//
// The matcher is a pure function over its inputs: no I/O, no side effects,
// and the same (description, rule set) pair always produces the same result.
// All the pattern logic in the system lives here and in the rule data;
// callers never re-check patterns themselves.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veldbooks/veld/internal/model"
)

// Matcher holds an evaluation-ordered view of one rule set snapshot with
// regex patterns pre-compiled.
type Matcher struct {
	compiled map[string]*regexp.Regexp
	rules    []model.Rule
}

// New builds a matcher for the given rule set. Rules are evaluated in
// priority-descending order with insertion order as the stable tie-break, so
// a priority-10 rule on "INSURANCE CHAUKE" always beats a priority-5 rule on
// the bare "INSURANCE" keyword. A regex pattern that fails to compile
// rejects construction outright; an invalid rule must never be silently
// skipped at match time.
func New(set *model.RuleSet) (*Matcher, error) {
	rules := set.Active()

	compiled := make(map[string]*regexp.Regexp, len(rules))
	for _, r := range rules {
		if r.Strategy != model.StrategyRegex {
			continue
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", model.ErrInvalidPattern, r.Name, err)
		}
		compiled[r.Name] = re
	}

	return &Matcher{rules: rules, compiled: compiled}, nil
}

// Match returns the classification for a description: the first rule in
// evaluation order whose pattern matches, or a fallback result when nothing
// matches. An unmatched description is a normal outcome, never an error.
func (m *Matcher) Match(description string) model.Classification {
	normalized := Normalize(description)

	for _, rule := range m.rules {
		if m.matches(rule, description, normalized) {
			return model.Classification{
				Description: description,
				AccountCode: rule.AccountCode,
				RuleName:    rule.Name,
				Confidence:  rule.Confidence,
			}
		}
	}

	return model.Classification{
		Description: description,
		IsFallback:  true,
	}
}

// RuleCount returns the number of rules in evaluation order.
func (m *Matcher) RuleCount() int {
	return len(m.rules)
}

func (m *Matcher) matches(rule model.Rule, raw, normalized string) bool {
	pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))

	switch rule.Strategy {
	case model.StrategyContains:
		return strings.Contains(normalized, pattern)
	case model.StrategyStartsWith:
		return strings.HasPrefix(normalized, pattern)
	case model.StrategyEndsWith:
		return strings.HasSuffix(normalized, pattern)
	case model.StrategyEquals:
		return normalized == Normalize(pattern)
	case model.StrategyRegex:
		// Search, not full match, over the raw description.
		re, ok := m.compiled[rule.Name]
		return ok && re.MatchString(raw)
	}
	return false
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lowercases a description, trims it, and collapses runs of
// whitespace so statement formatting differences never affect matching.
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
