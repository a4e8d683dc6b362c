// Package reconcile merges the code-defined standard rules with the
// operator-edited persisted rules into a single rule set.
//
// The merge is the only place the two rule authorities meet. Persisted rules
// are authoritative for anything a human has edited; standard rules are
// additive defaults. Collisions are reported as data, never resolved by
// silently picking a side - that shortcut is exactly what produced
// misclassified production transactions in the past.
package reconcile

import (
	"fmt"

	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/registry"
)

// ConflictKind identifies the class of a reported collision.
type ConflictKind string

const (
	// ConflictDuplicateName is two active rules sharing a name with
	// different target account codes.
	ConflictDuplicateName ConflictKind = "duplicate_name"
	// ConflictUnknownAccount is a rule targeting a code absent from the
	// account registry.
	ConflictUnknownAccount ConflictKind = "unknown_account"
	// ConflictInvalidRule is a rule failing structural validation.
	ConflictInvalidRule ConflictKind = "invalid_rule"
)

// Conflict is one detected collision, surfaced for human review.
type Conflict struct {
	RuleName      string
	Kind          ConflictKind
	Detail        string
	StandardCode  string
	PersistedCode string
}

// ConflictReport lists every collision detected during a merge.
type ConflictReport struct {
	Conflicts []Conflict
}

// Empty reports whether the merge completed without collisions.
func (r ConflictReport) Empty() bool {
	return len(r.Conflicts) == 0
}

func (r *ConflictReport) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// Result is the outcome of one merge pass.
type Result struct {
	Set    *model.RuleSet
	Added  []model.Rule
	Report ConflictReport
}

// Merge reconciles standard against persisted rules, validating every target
// code against the registry.
//
// Policy: a persisted rule wins over a standard rule with the same name when
// their targets agree (the human edit is authoritative, including a
// deactivation). Differing targets are a conflict; both rules are excluded
// pending explicit resolution via resolutions[name] naming the winning
// origin. Standard rules with no persisted counterpart are returned in
// Result.Added so the caller can persist them additively. Running the merge
// twice over unchanged inputs yields an identical set, an empty Added list
// and the same report.
func Merge(standardRules, persisted []model.Rule, reg *registry.Registry, resolutions map[string]model.RuleOrigin) (*Result, error) {
	res := &Result{}

	merged := make([]model.Rule, 0, len(persisted)+len(standardRules))
	excluded := make(map[string]bool)
	byName := make(map[string]model.Rule, len(persisted))

	for _, r := range persisted {
		if !accept(&res.Report, reg, r) {
			excluded[r.Name] = true
			continue
		}
		if excluded[r.Name] {
			continue
		}
		if prev, seen := byName[r.Name]; seen {
			if r.Active && prev.Active && prev.AccountCode != r.AccountCode {
				res.Report.add(Conflict{
					RuleName:      r.Name,
					Kind:          ConflictDuplicateName,
					Detail:        "two persisted rules share this name with different targets",
					PersistedCode: prev.AccountCode + "," + r.AccountCode,
				})
				excluded[r.Name] = true
				merged = removeByName(merged, r.Name)
				delete(byName, r.Name)
			}
			continue
		}
		byName[r.Name] = r
		merged = append(merged, r)
	}

	for _, std := range standardRules {
		if !accept(&res.Report, reg, std) {
			excluded[std.Name] = true
			continue
		}

		existing, ok := byName[std.Name]
		if !ok {
			if excluded[std.Name] {
				continue
			}
			merged = append(merged, std)
			res.Added = append(res.Added, std)
			continue
		}

		// Persisted wins on agreement; differing targets need a human.
		if !existing.Active || existing.AccountCode == std.AccountCode {
			continue
		}

		switch resolutions[std.Name] {
		case model.OriginPersisted:
			// Explicitly resolved: keep the persisted version already merged.
		case model.OriginStandard:
			for i := range merged {
				if merged[i].Name == std.Name {
					merged[i] = std
					break
				}
			}
		default:
			res.Report.add(Conflict{
				RuleName:      std.Name,
				Kind:          ConflictDuplicateName,
				Detail:        "standard and persisted rules disagree on the target account",
				StandardCode:  std.AccountCode,
				PersistedCode: existing.AccountCode,
			})
			merged = removeByName(merged, std.Name)
		}
	}

	set, err := model.NewRuleSet(merged)
	if err != nil {
		return nil, fmt.Errorf("building merged rule set: %w", err)
	}
	res.Set = set
	return res, nil
}

// accept validates a rule structurally and against the registry, recording a
// conflict and returning false when it must stay out of the merged set.
func accept(report *ConflictReport, reg *registry.Registry, r model.Rule) bool {
	if err := r.Validate(); err != nil {
		report.add(Conflict{
			RuleName: r.Name,
			Kind:     ConflictInvalidRule,
			Detail:   err.Error(),
		})
		return false
	}
	if _, err := reg.Resolve(r.AccountCode); err != nil {
		report.add(Conflict{
			RuleName: r.Name,
			Kind:     ConflictUnknownAccount,
			Detail:   fmt.Sprintf("target account %s: %v", r.AccountCode, err),
		})
		return false
	}
	return true
}

func removeByName(rules []model.Rule, name string) []model.Rule {
	out := rules[:0]
	for _, r := range rules {
		if r.Name != name {
			out = append(out, r)
		}
	}
	return out
}
