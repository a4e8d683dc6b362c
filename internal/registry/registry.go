// Package registry maintains the canonical table of account codes.
//
// The registry is the single source of truth for valid codes. Every code
// belongs to exactly one category, and the numeric range a category owns is
// never reassigned, so classifications recorded years ago keep resolving to
// the same category. Registration is serialized behind a mutex; lookups read
// an immutable snapshot and never block.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/veldbooks/veld/internal/model"
)

// Registry errors.
var (
	ErrNotFound      = errors.New("account code not found")
	ErrDuplicateCode = errors.New("account code already registered")
	ErrRangeConflict = errors.New("account code range conflict")
	ErrInvalidCode   = errors.New("invalid account code")
)

// Registry is the immutable-at-runtime account-code table.
type Registry struct {
	snap   atomic.Pointer[snapshot]
	ranges []model.CodeRange
	mu     sync.Mutex
}

type snapshot struct {
	byCode  map[string]model.AccountCode
	ordered []model.AccountCode
}

// New creates a registry owning the given code ranges and seeds it with the
// initial chart of accounts. Seeding fails on the first duplicate or range
// conflict; a registry is never built from a partially valid chart.
func New(ranges []model.CodeRange, chart []model.AccountCode) (*Registry, error) {
	if err := validateRanges(ranges); err != nil {
		return nil, err
	}

	r := &Registry{ranges: ranges}
	r.snap.Store(&snapshot{byCode: map[string]model.AccountCode{}})

	for _, ac := range chart {
		if err := r.Register(ac); err != nil {
			return nil, fmt.Errorf("seeding chart of accounts: %w", err)
		}
	}
	return r, nil
}

// NewWithDefaults creates a registry over the default ranges and chart.
func NewWithDefaults() (*Registry, error) {
	return New(DefaultRanges(), DefaultChart())
}

// Resolve returns the account registered under code.
func (r *Registry) Resolve(code string) (model.AccountCode, error) {
	snap := r.snap.Load()
	ac, ok := snap.byCode[code]
	if !ok {
		return model.AccountCode{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return ac, nil
}

// AllCodes returns every registered account ordered by numeric code.
func (r *Registry) AllCodes() []model.AccountCode {
	snap := r.snap.Load()
	out := make([]model.AccountCode, len(snap.ordered))
	copy(out, snap.ordered)
	return out
}

// Register adds a new account code. It fails with ErrDuplicateCode if the
// code already exists and with ErrRangeConflict if the code falls inside a
// range owned by a different category than the one supplied, or inside no
// reserved range at all. On any failure the registry is unchanged.
func (r *Registry) Register(ac model.AccountCode) error {
	n, err := parseCode(ac.Code)
	if err != nil {
		return err
	}
	if !ac.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q for code %s", ErrInvalidCode, ac.Category, ac.Code)
	}

	owner, ok := r.ownerOf(n)
	if !ok {
		return fmt.Errorf("%w: code %s falls in no reserved range", ErrRangeConflict, ac.Code)
	}
	if owner != ac.Category {
		return fmt.Errorf("%w: code %s is reserved for category %q, not %q",
			ErrRangeConflict, ac.Code, owner, ac.Category)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snap.Load()
	if _, exists := old.byCode[ac.Code]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, ac.Code)
	}

	byCode := make(map[string]model.AccountCode, len(old.byCode)+1)
	for k, v := range old.byCode {
		byCode[k] = v
	}
	byCode[ac.Code] = ac

	ordered := make([]model.AccountCode, 0, len(byCode))
	for _, v := range byCode {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Code < ordered[j].Code })

	r.snap.Store(&snapshot{byCode: byCode, ordered: ordered})
	return nil
}

// CategoryOf resolves the owning category for a code without requiring the
// code itself to be registered yet.
func (r *Registry) CategoryOf(code string) (model.Category, error) {
	n, err := parseCode(code)
	if err != nil {
		return "", err
	}
	owner, ok := r.ownerOf(n)
	if !ok {
		return "", fmt.Errorf("%w: code %s falls in no reserved range", ErrRangeConflict, code)
	}
	return owner, nil
}

func (r *Registry) ownerOf(code int) (model.Category, bool) {
	for _, rng := range r.ranges {
		if rng.Contains(code) {
			return rng.Category, true
		}
	}
	return "", false
}

func parseCode(code string) (int, error) {
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidCode, code)
	}
	return n, nil
}

// validateRanges rejects overlapping range tables up front; two categories
// claiming the same numeric span is exactly the historical failure mode the
// registry exists to prevent.
func validateRanges(ranges []model.CodeRange) error {
	for i, a := range ranges {
		if a.Lo > a.Hi {
			return fmt.Errorf("%w: range %d-%d for %q is inverted", ErrRangeConflict, a.Lo, a.Hi, a.Category)
		}
		if !a.Category.Valid() {
			return fmt.Errorf("%w: range %d-%d names unknown category %q", ErrInvalidCode, a.Lo, a.Hi, a.Category)
		}
		for _, b := range ranges[i+1:] {
			if a.Lo <= b.Hi && b.Lo <= a.Hi && a.Category != b.Category {
				return fmt.Errorf("%w: categories %q and %q both claim %d-%d",
					ErrRangeConflict, a.Category, b.Category, max(a.Lo, b.Lo), min(a.Hi, b.Hi))
			}
		}
	}
	return nil
}
