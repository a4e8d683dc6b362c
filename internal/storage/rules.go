package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/veldbooks/veld/internal/model"
)

const ruleColumns = `id, name, description, strategy, pattern, account_code,
	priority, confidence, origin, is_active, created_at, updated_at`

// CreateRule stores a new rule, enforcing name uniqueness.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rules WHERE name = ?", rule.Name).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check rule name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, rule.Name)
	}

	query := `
		INSERT INTO rules (
			name, description, strategy, pattern, account_code,
			priority, confidence, origin, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Name, rule.Description, string(rule.Strategy), rule.Pattern,
		rule.AccountCode, rule.Priority, rule.Confidence,
		string(rule.Origin), rule.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule ID: %w", err)
	}

	rule.ID = id
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt

	return nil
}

// GetRuleByName retrieves a rule by its unique name.
func (s *SQLiteStorage) GetRuleByName(ctx context.Context, name string) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM rules WHERE name = ?`

	rule, err := scanRule(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: rule %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// ListRules retrieves all rules, active and inactive, ordered by ID.
func (s *SQLiteStorage) ListRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", scanErr)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return rules, nil
}

// UpdateRule replaces a stored rule identified by name.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		UPDATE rules
		SET description = ?, strategy = ?, pattern = ?, account_code = ?,
			priority = ?, confidence = ?, origin = ?, is_active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Description, string(rule.Strategy), rule.Pattern, rule.AccountCode,
		rule.Priority, rule.Confidence, string(rule.Origin), rule.Active,
		rule.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %s", ErrNotFound, rule.Name)
	}

	rule.UpdatedAt = time.Now()
	return nil
}

// DeactivateRule flips a rule inactive. Rules are never hard-deleted so past
// classifications stay traceable to the rule that produced them.
func (s *SQLiteStorage) DeactivateRule(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE rules SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE name = ?",
		name)
	if err != nil {
		return fmt.Errorf("failed to deactivate rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivate result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %s", ErrNotFound, name)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*model.Rule, error) {
	var rule model.Rule
	var strategy, origin string
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Description, &strategy, &rule.Pattern,
		&rule.AccountCode, &rule.Priority, &rule.Confidence, &origin,
		&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rule.Strategy = model.MatchStrategy(strategy)
	rule.Origin = model.RuleOrigin(origin)
	return &rule, nil
}
