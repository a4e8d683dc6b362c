// Package storage provides the SQLite persistence layer for rules and
// classification outcomes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/veldbooks/veld/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateName  = errors.New("rule name already exists")
	ErrInvalidBatchID = errors.New("batch identifier is required")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRule validates a rule before it touches the database. Structural
// validation lives on the model; persistence refuses anything the model
// refuses so an invalid rule can never be written and later mis-ranked.
func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	return rule.Validate()
}

// validateTransactions validates a batch of transactions.
func validateTransactions(transactions []model.Transaction) error {
	for i, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("transaction at index %d: %w: id", i, ErrEmptyString)
		}
		if strings.TrimSpace(txn.Description) == "" {
			return fmt.Errorf("transaction at index %d: %w: description", i, ErrEmptyString)
		}
	}
	return nil
}
