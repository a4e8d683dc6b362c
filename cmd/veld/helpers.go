package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/veldbooks/veld/internal/engine"
	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/reconcile"
	"github.com/veldbooks/veld/internal/registry"
	"github.com/veldbooks/veld/internal/storage"
)

// classifier resolves one description against the loaded rule snapshot.
type classifier interface {
	Classify(description string) (model.Classification, error)
}

// accountResolver looks up registered account codes.
type accountResolver interface {
	Resolve(code string) (model.AccountCode, error)
}

// defaultDBPath is used when database.path is not configured.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "veld", "veld.db"), nil
}

// expandPath expands a leading tilde and environment variables.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// initStorage opens the configured database and brings its schema current.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initRegistry builds the account registry, loading a chart-of-accounts file
// when one is configured and falling back to the built-in chart otherwise.
func initRegistry() (*registry.Registry, error) {
	if chartPath := viper.GetString("accounts.chart"); chartPath != "" {
		return registry.NewFromFile(expandPath(chartPath))
	}
	return registry.NewWithDefaults()
}

// initEngine wires storage, registry, and sync service into an engine.
func initEngine(store *storage.SQLiteStorage, reg *registry.Registry) (*engine.Engine, error) {
	cfg := engine.DefaultConfig()
	cfg.FallbackCode = viper.GetString("classify.fallback_code")
	if workers := viper.GetInt("classify.workers"); workers > 0 {
		cfg.Workers = workers
	}

	return engine.New(store, reconcile.NewService(store, reg), reg, cfg)
}
