// Package service defines the interfaces between the classification core and
// its collaborators.
package service

import (
	"context"

	"github.com/veldbooks/veld/internal/model"
)

// ClassifiedTransaction pairs a stored transaction with its recorded
// classification outcome.
type ClassifiedTransaction struct {
	Transaction    model.Transaction
	Classification model.Classification
}

// Storage is the contract for the persistence collaborator. The core treats
// it as a record store; no wire protocol is implied.
type Storage interface {
	// Rule operations. Rules are deactivated, never hard-deleted, so past
	// classifications stay traceable to the rule that produced them.
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRuleByName(ctx context.Context, name string) (*model.Rule, error)
	ListRules(ctx context.Context) ([]model.Rule, error)
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeactivateRule(ctx context.Context, name string) error

	// Transaction and outcome operations.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	ListTransactionsToClassify(ctx context.Context) ([]model.Transaction, error)
	SaveClassification(ctx context.Context, transactionID string, c *model.Classification) error
	GetClassification(ctx context.Context, transactionID string) (*ClassifiedTransaction, error)
	ListUnclassified(ctx context.Context, limit int) ([]ClassifiedTransaction, error)
	ListByAccountCode(ctx context.Context, accountCode string) ([]ClassifiedTransaction, error)

	// ApplyBulkClassification reassigns the given transactions to an account
	// code under a caller-supplied batch identifier. Replaying a batch
	// identifier is a no-op returning zero updates, so a retry after a
	// partial failure never double-counts.
	ApplyBulkClassification(ctx context.Context, batchID, accountCode, ruleName string, transactionIDs []string) (int64, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
