package reclassify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veldbooks/veld/internal/registry"
	"github.com/veldbooks/veld/internal/service"
)

// State is the review state of a bulk re-classification proposal.
type State string

// Proposal states.
const (
	StateProposed  State = "proposed"
	StateConfirmed State = "confirmed"
	StateApplied   State = "applied"
	StateRejected  State = "rejected"
)

// Proposal state errors.
var (
	ErrInvalidTransition = errors.New("invalid proposal state transition")
	ErrNoCandidates      = errors.New("proposal has no candidate transactions")
)

// Proposal is a batch of transactions proposed for re-classification to one
// account code. Its ID doubles as the idempotency batch identifier handed to
// the store, so retrying a partially failed apply never double-counts.
type Proposal struct {
	CreatedAt      time.Time
	ID             string
	AccountCode    string
	KeyPattern     string
	State          State
	TransactionIDs []string
	Descriptions   []string
}

// Confirm moves a proposal from proposed to confirmed.
func (p *Proposal) Confirm() error {
	if p.State != StateProposed {
		return fmt.Errorf("%w: %s -> confirmed", ErrInvalidTransition, p.State)
	}
	p.State = StateConfirmed
	return nil
}

// Reject moves a proposal from proposed to rejected.
func (p *Proposal) Reject() error {
	if p.State != StateProposed {
		return fmt.Errorf("%w: %s -> rejected", ErrInvalidTransition, p.State)
	}
	p.State = StateRejected
	return nil
}

// Helper builds and applies bulk re-classification proposals.
type Helper struct {
	store    service.Storage
	registry *registry.Registry
}

// NewHelper creates a bulk re-classification helper.
func NewHelper(store service.Storage, reg *registry.Registry) *Helper {
	return &Helper{store: store, registry: reg}
}

// Propose scans unclassified transactions for descriptions sharing the
// corrected description's key pattern and returns a proposal targeting the
// given account code. The account must exist in the registry.
func (h *Helper) Propose(ctx context.Context, correctedDescription, accountCode string, maxResults int) (*Proposal, error) {
	if _, err := h.registry.Resolve(accountCode); err != nil {
		return nil, fmt.Errorf("proposal target: %w", err)
	}

	unclassified, err := h.store.ListUnclassified(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("loading unclassified transactions: %w", err)
	}

	descriptions := make([]string, len(unclassified))
	byDescription := make(map[string][]string, len(unclassified))
	for i, ct := range unclassified {
		descriptions[i] = ct.Transaction.Description
		byDescription[ct.Transaction.Description] = append(
			byDescription[ct.Transaction.Description], ct.Transaction.ID)
	}

	similar := FindSimilar(correctedDescription, descriptions, maxResults)

	p := &Proposal{
		ID:          uuid.NewString(),
		AccountCode: accountCode,
		KeyPattern:  KeyPattern(correctedDescription),
		State:       StateProposed,
		CreatedAt:   time.Now(),
	}
	seen := make(map[string]bool)
	for _, desc := range similar {
		for _, id := range byDescription[desc] {
			if seen[id] {
				continue
			}
			seen[id] = true
			p.TransactionIDs = append(p.TransactionIDs, id)
			p.Descriptions = append(p.Descriptions, desc)
		}
	}
	return p, nil
}

// Apply writes a confirmed proposal to the store. The proposal ID is the
// batch identifier: if the store has already applied it, zero updates are
// reported and nothing is modified. State moves to applied only on success,
// so a failed apply can be retried with the same batch identifier.
func (h *Helper) Apply(ctx context.Context, p *Proposal) (int64, error) {
	if p.State != StateConfirmed {
		return 0, fmt.Errorf("%w: %s -> applied", ErrInvalidTransition, p.State)
	}
	if len(p.TransactionIDs) == 0 {
		return 0, ErrNoCandidates
	}

	updated, err := h.store.ApplyBulkClassification(ctx, p.ID, p.AccountCode, "", p.TransactionIDs)
	if err != nil {
		return 0, fmt.Errorf("applying bulk re-classification: %w", err)
	}

	p.State = StateApplied
	slog.Info("bulk re-classification applied",
		"batch_id", p.ID,
		"account_code", p.AccountCode,
		"candidates", len(p.TransactionIDs),
		"updated", updated)
	return updated, nil
}
