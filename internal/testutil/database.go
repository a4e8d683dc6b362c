// Package testutil provides shared helpers for tests that need a real
// SQLite database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/storage"
)

// TestDB wraps a migrated SQLite storage backed by a per-test temp file.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated test database. Cleanup is registered on the
// test.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "veld.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedRules persists the given rules, failing the test on any error.
func (db *TestDB) SeedRules(rules ...model.Rule) {
	db.t.Helper()
	ctx := context.Background()
	for i := range rules {
		if err := db.Storage.CreateRule(ctx, &rules[i]); err != nil {
			db.t.Fatalf("failed to seed rule %q: %v", rules[i].Name, err)
		}
	}
}

// SeedTransactions persists the given transactions, failing the test on any
// error.
func (db *TestDB) SeedTransactions(transactions ...model.Transaction) {
	db.t.Helper()
	if err := db.Storage.SaveTransactions(context.Background(), transactions); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}
