package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MatchStrategy selects how a rule's pattern is evaluated against a
// transaction description. All strategies compare case-insensitively.
type MatchStrategy string

// Match strategy constants. These strings are the canonical persisted form.
const (
	StrategyContains   MatchStrategy = "contains"
	StrategyStartsWith MatchStrategy = "starts_with"
	StrategyEndsWith   MatchStrategy = "ends_with"
	StrategyEquals     MatchStrategy = "equals"
	StrategyRegex      MatchStrategy = "regex"
)

// Valid reports whether s is one of the five known strategies.
func (s MatchStrategy) Valid() bool {
	switch s {
	case StrategyContains, StrategyStartsWith, StrategyEndsWith, StrategyEquals, StrategyRegex:
		return true
	}
	return false
}

// RuleOrigin records which authority defined a rule.
type RuleOrigin string

const (
	// OriginStandard marks rules defined in code as built-in defaults.
	OriginStandard RuleOrigin = "standard"
	// OriginPersisted marks rules created or edited by an operator.
	OriginPersisted RuleOrigin = "persisted"
)

// Rule validation errors.
var (
	ErrInvalidPattern  = errors.New("invalid rule pattern")
	ErrInvalidStrategy = errors.New("invalid match strategy")
	ErrDuplicateName   = errors.New("duplicate rule name")
)

// Rule binds a description pattern to a canonical account code.
type Rule struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Strategy    MatchStrategy `json:"strategy"`
	Pattern     string        `json:"pattern"`
	AccountCode string        `json:"account_code"`
	Origin      RuleOrigin    `json:"origin"`
	ID          int64         `json:"id"`
	Priority    int           `json:"priority"`
	Confidence  float64       `json:"confidence"`
	Active      bool          `json:"active"`
}

// Validate rejects rules that must never enter an active rule set: empty
// names or patterns, unknown strategies, and regex patterns that do not
// compile. Target-code existence is checked against the registry by callers.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidPattern)
	}
	if strings.TrimSpace(r.AccountCode) == "" {
		return fmt.Errorf("%w: rule %q has no target account code", ErrInvalidPattern, r.Name)
	}
	if !r.Strategy.Valid() {
		return fmt.Errorf("%w: rule %q uses strategy %q", ErrInvalidStrategy, r.Name, r.Strategy)
	}
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("%w: rule %q has an empty pattern", ErrInvalidPattern, r.Name)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: rule %q confidence must be between 0 and 1", ErrInvalidPattern, r.Name)
	}
	if r.Strategy == StrategyRegex {
		if _, err := regexp.Compile("(?i)" + r.Pattern); err != nil {
			return fmt.Errorf("%w: rule %q: %v", ErrInvalidPattern, r.Name, err)
		}
	}
	return nil
}
