package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/veldbooks/veld/internal/model"
)

// ErrMockNotFound is returned by MockStorage lookups that miss.
var ErrMockNotFound = errors.New("not found")

// MockStorage is an in-memory Storage for tests. It mirrors the semantics
// the SQLite implementation guarantees, including bulk-apply idempotency.
type MockStorage struct {
	rules           map[string]*model.Rule
	transactions    map[string]model.Transaction
	classifications map[string]model.Classification
	appliedBatches  map[string]bool
	order           []string
	nextRuleID      int64
	mu              sync.Mutex
}

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		rules:           make(map[string]*model.Rule),
		transactions:    make(map[string]model.Transaction),
		classifications: make(map[string]model.Classification),
		appliedBatches:  make(map[string]bool),
	}
}

// CreateRule stores a new rule, enforcing name uniqueness.
func (m *MockStorage) CreateRule(_ context.Context, rule *model.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rules[rule.Name]; exists {
		return fmt.Errorf("%w: %s", model.ErrDuplicateName, rule.Name)
	}
	m.nextRuleID++
	rule.ID = m.nextRuleID
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	stored := *rule
	m.rules[rule.Name] = &stored
	return nil
}

// GetRuleByName returns a stored rule.
func (m *MockStorage) GetRuleByName(_ context.Context, name string) (*model.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: rule %s", ErrMockNotFound, name)
	}
	out := *r
	return &out, nil
}

// ListRules returns all rules ordered by ID.
func (m *MockStorage) ListRules(_ context.Context) ([]model.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Rule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateRule replaces a stored rule.
func (m *MockStorage) UpdateRule(_ context.Context, rule *model.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rules[rule.Name]
	if !ok {
		return fmt.Errorf("%w: rule %s", ErrMockNotFound, rule.Name)
	}
	rule.ID = existing.ID
	rule.UpdatedAt = time.Now()
	stored := *rule
	m.rules[rule.Name] = &stored
	return nil
}

// DeactivateRule flips a rule inactive without deleting it.
func (m *MockStorage) DeactivateRule(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[name]
	if !ok {
		return fmt.Errorf("%w: rule %s", ErrMockNotFound, name)
	}
	r.Active = false
	r.UpdatedAt = time.Now()
	return nil
}

// SaveTransactions stores transactions, keeping first-seen order.
func (m *MockStorage) SaveTransactions(_ context.Context, transactions []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range transactions {
		if _, seen := m.transactions[txn.ID]; !seen {
			m.order = append(m.order, txn.ID)
		}
		m.transactions[txn.ID] = txn
	}
	return nil
}

// GetTransaction returns one stored transaction.
func (m *MockStorage) GetTransaction(_ context.Context, id string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", ErrMockNotFound, id)
	}
	return &txn, nil
}

// ListTransactions returns stored transactions in first-seen order.
func (m *MockStorage) ListTransactions(_ context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Transaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.transactions[id])
	}
	return out, nil
}

// ListTransactionsToClassify returns transactions with no recorded outcome.
func (m *MockStorage) ListTransactionsToClassify(_ context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Transaction
	for _, id := range m.order {
		if _, done := m.classifications[id]; !done {
			out = append(out, m.transactions[id])
		}
	}
	return out, nil
}

// SaveClassification records a classification outcome for a transaction.
func (m *MockStorage) SaveClassification(_ context.Context, transactionID string, c *model.Classification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[transactionID]; !ok {
		return fmt.Errorf("%w: transaction %s", ErrMockNotFound, transactionID)
	}
	m.classifications[transactionID] = *c
	return nil
}

// GetClassification returns the stored outcome for a transaction.
func (m *MockStorage) GetClassification(_ context.Context, transactionID string) (*ClassifiedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classifications[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: classification for %s", ErrMockNotFound, transactionID)
	}
	return &ClassifiedTransaction{Transaction: m.transactions[transactionID], Classification: c}, nil
}

// ListUnclassified returns fallback outcomes in first-seen order.
func (m *MockStorage) ListUnclassified(_ context.Context, limit int) ([]ClassifiedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ClassifiedTransaction
	for _, id := range m.order {
		if limit > 0 && len(out) == limit {
			break
		}
		c, ok := m.classifications[id]
		if !ok || !c.IsFallback {
			continue
		}
		out = append(out, ClassifiedTransaction{Transaction: m.transactions[id], Classification: c})
	}
	return out, nil
}

// ListByAccountCode returns outcomes resolved to the given account.
func (m *MockStorage) ListByAccountCode(_ context.Context, accountCode string) ([]ClassifiedTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ClassifiedTransaction
	for _, id := range m.order {
		c, ok := m.classifications[id]
		if !ok || c.AccountCode != accountCode {
			continue
		}
		out = append(out, ClassifiedTransaction{Transaction: m.transactions[id], Classification: c})
	}
	return out, nil
}

// ApplyBulkClassification reassigns transactions to an account under a batch
// identifier. Replayed batch identifiers are no-ops.
func (m *MockStorage) ApplyBulkClassification(_ context.Context, batchID, accountCode, ruleName string, transactionIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appliedBatches[batchID] {
		return 0, nil
	}
	var updated int64
	for _, id := range transactionIDs {
		if _, ok := m.transactions[id]; !ok {
			continue
		}
		c := m.classifications[id]
		c.Description = m.transactions[id].Description
		c.AccountCode = accountCode
		c.RuleName = ruleName
		c.IsFallback = false
		c.ClassifiedAt = time.Now()
		m.classifications[id] = c
		updated++
	}
	m.appliedBatches[batchID] = true
	return updated, nil
}

// Migrate is a no-op for the in-memory store.
func (m *MockStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MockStorage) Close() error { return nil }

var _ Storage = (*MockStorage)(nil)
