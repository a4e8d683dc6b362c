// Package engine orchestrates classification of transactions against the
// reconciled rule set.
//
// The engine owns no pattern logic of its own: every pattern lives in the
// rule data evaluated by the matcher, so adding or fixing a pattern never
// requires a code change here. Classification runs against an immutable
// snapshot swapped atomically by Refresh; in-flight calls are never affected
// by a concurrent rule edit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veldbooks/veld/internal/matcher"
	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/reclassify"
	"github.com/veldbooks/veld/internal/reconcile"
	"github.com/veldbooks/veld/internal/registry"
	"github.com/veldbooks/veld/internal/service"
)

// ErrNotRefreshed is returned when Classify runs before any rule snapshot
// has been loaded.
var ErrNotRefreshed = errors.New("no rule set loaded; call Refresh first")

// Config holds engine options.
type Config struct {
	// FallbackCode, when set, is the single documented suspense account
	// stamped on unmatched classifications. The result still carries
	// IsFallback=true so callers route it to human review. When empty,
	// unmatched transactions stay fully unclassified.
	FallbackCode string
	// Workers bounds the goroutines used by ClassifyAll.
	Workers int
}

// DefaultConfig returns the default engine configuration: strict
// leave-unclassified fallback policy and a small worker pool.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Stats summarizes one batch classification run.
type Stats struct {
	Total    int
	Matched  int
	Fallback int
}

// Engine classifies transaction descriptions into account codes.
type Engine struct {
	current  atomic.Pointer[matcher.Matcher]
	store    service.Storage
	sync     *reconcile.Service
	fallback string
	workers  int
}

// New creates an engine. A non-empty fallback code must resolve in the
// registry; a suspense code that is itself unregistered would reintroduce
// the silent-corruption mode the registry exists to prevent.
func New(store service.Storage, syncService *reconcile.Service, reg *registry.Registry, cfg Config) (*Engine, error) {
	if cfg.FallbackCode != "" {
		if _, err := reg.Resolve(cfg.FallbackCode); err != nil {
			return nil, fmt.Errorf("fallback account: %w", err)
		}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}
	return &Engine{
		store:    store,
		sync:     syncService,
		fallback: cfg.FallbackCode,
		workers:  workers,
	}, nil
}

// Refresh reconciles the rule authorities and swaps in a new matcher
// snapshot. Conflicted rules are excluded from the snapshot; the report is
// returned for the administrative surface to present.
func (e *Engine) Refresh(ctx context.Context) (*reconcile.Result, error) {
	result, err := e.sync.Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing rule set: %w", err)
	}

	m, err := matcher.New(result.Set)
	if err != nil {
		return nil, fmt.Errorf("building matcher: %w", err)
	}

	e.current.Store(m)
	slog.Info("rule snapshot refreshed", "rules", m.RuleCount())
	return result, nil
}

// Classify resolves one description against the current snapshot. The call
// is pure CPU work over immutable data and is safe to invoke from any number
// of goroutines. An unmatched description is a normal outcome flagged
// IsFallback, never an error.
func (e *Engine) Classify(description string) (model.Classification, error) {
	m := e.current.Load()
	if m == nil {
		return model.Classification{}, ErrNotRefreshed
	}

	result := m.Match(description)
	result.ClassifiedAt = time.Now()
	result.Detail = reclassify.KeyPattern(description)
	if result.IsFallback && e.fallback != "" {
		result.AccountCode = e.fallback
	}
	return result, nil
}

// ClassifyAll classifies every stored transaction without a recorded
// outcome, persisting each result. Matching fans out over the worker pool;
// writes are serialized on the collector. onProgress, when non-nil, is
// invoked after each persisted outcome.
func (e *Engine) ClassifyAll(ctx context.Context, onProgress func(done, total int)) (Stats, error) {
	if e.current.Load() == nil {
		return Stats{}, ErrNotRefreshed
	}

	transactions, err := e.store.ListTransactionsToClassify(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("loading transactions: %w", err)
	}

	stats := Stats{Total: len(transactions)}
	if len(transactions) == 0 {
		return stats, nil
	}

	type outcome struct {
		classification model.Classification
		transactionID  string
	}

	jobs := make(chan model.Transaction)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for txn := range jobs {
				c, cerr := e.Classify(txn.Description)
				if cerr != nil {
					// Snapshot cannot disappear mid-run; guard anyway.
					c = model.Classification{Description: txn.Description, IsFallback: true}
				}
				results <- outcome{classification: c, transactionID: txn.ID}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, txn := range transactions {
			select {
			case jobs <- txn:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	var saveErr error
	for r := range results {
		if saveErr != nil {
			continue // drain so workers can exit
		}
		if err := e.store.SaveClassification(ctx, r.transactionID, &r.classification); err != nil {
			saveErr = fmt.Errorf("saving classification for %s: %w", r.transactionID, err)
			continue
		}
		if r.classification.IsFallback {
			stats.Fallback++
		} else {
			stats.Matched++
		}
		done++
		if onProgress != nil {
			onProgress(done, stats.Total)
		}
	}
	if saveErr != nil {
		return stats, saveErr
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	slog.Info("batch classification complete",
		"total", stats.Total,
		"matched", stats.Matched,
		"fallback", stats.Fallback)
	return stats, nil
}
