package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/registry"
	"github.com/veldbooks/veld/internal/service"
	"github.com/veldbooks/veld/internal/standard"
)

// Service keeps the persisted rule store and the standard rule set
// synchronized. Sync calls are serialized; two concurrent administrative
// edits must never interleave their merged state.
type Service struct {
	store    service.Storage
	registry *registry.Registry
	mu       sync.Mutex
}

// NewService creates a reconciliation service over the given store and
// registry.
func NewService(store service.Storage, reg *registry.Registry) *Service {
	return &Service{store: store, registry: reg}
}

// Sync merges the standard rules with the persisted rules, writes any
// standard rule the store does not know yet, and returns the merged set with
// the conflict report. Conflicted rules are excluded from the set until an
// operator resolves them; Sync never picks a side on its own.
func (s *Service) Sync(ctx context.Context) (*Result, error) {
	return s.SyncResolved(ctx, nil)
}

// SyncResolved is Sync with explicit per-rule conflict resolutions: the map
// names the origin that wins for each conflicted rule name.
func (s *Service) SyncResolved(ctx context.Context, resolutions map[string]model.RuleOrigin) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := s.store.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted rules: %w", err)
	}

	result, err := Merge(standard.Rules(), persisted, s.registry, resolutions)
	if err != nil {
		return nil, err
	}

	for i := range result.Added {
		rule := result.Added[i]
		if err := s.store.CreateRule(ctx, &rule); err != nil {
			return nil, fmt.Errorf("persisting standard rule %q: %w", rule.Name, err)
		}
	}

	slog.Info("rule sync complete",
		"persisted", len(persisted),
		"added", len(result.Added),
		"conflicts", len(result.Report.Conflicts),
		"merged", result.Set.Len())

	return result, nil
}
