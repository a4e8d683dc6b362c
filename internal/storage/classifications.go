package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/service"
)

// SaveTransactions stores a batch of transactions. Replayed IDs overwrite the
// stored row so re-importing a statement is harmless.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, description, amount, date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount = excluded.amount,
			date = excluded.date
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if _, err := stmt.ExecContext(ctx, txn.ID, txn.Description, txn.Amount.String(), txn.Date); err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// GetTransaction retrieves one transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, description, amount, date FROM transactions WHERE id = ?", id)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves all stored transactions in date order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx,
		"SELECT id, description, amount, date FROM transactions ORDER BY date ASC, id ASC")
}

// ListTransactionsToClassify retrieves transactions with no recorded outcome.
func (s *SQLiteStorage) ListTransactionsToClassify(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, `
		SELECT t.id, t.description, t.amount, t.date
		FROM transactions t
		LEFT JOIN classifications c ON c.transaction_id = t.id
		WHERE c.transaction_id IS NULL
		ORDER BY t.date ASC, t.id ASC
	`)
}

// SaveClassification records the classification outcome for a transaction,
// replacing any earlier outcome.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, transactionID string, c *model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: classification", ErrNilParameter)
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE id = ?", transactionID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to verify transaction: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, transactionID)
	}

	query := `
		INSERT INTO classifications (
			transaction_id, description, account_code, rule_name,
			detail, confidence, is_fallback, classified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			description = excluded.description,
			account_code = excluded.account_code,
			rule_name = excluded.rule_name,
			detail = excluded.detail,
			confidence = excluded.confidence,
			is_fallback = excluded.is_fallback,
			classified_at = excluded.classified_at
	`

	_, err = s.db.ExecContext(ctx, query,
		transactionID, c.Description, c.AccountCode, c.RuleName,
		c.Detail, c.Confidence, c.IsFallback, c.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}
	return nil
}

// GetClassification retrieves the stored outcome for a transaction.
func (s *SQLiteStorage) GetClassification(ctx context.Context, transactionID string) (*service.ClassifiedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, classifiedQuery+" WHERE c.transaction_id = ?", transactionID)

	ct, err := scanClassified(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: classification for %s", ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}
	return ct, nil
}

// ListUnclassified retrieves fallback outcomes awaiting review, oldest first.
// A limit of zero means no limit.
func (s *SQLiteStorage) ListUnclassified(ctx context.Context, limit int) ([]service.ClassifiedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := classifiedQuery + " WHERE c.is_fallback = 1 ORDER BY t.date ASC, t.id ASC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryClassified(ctx, query, args...)
}

// ListByAccountCode retrieves outcomes resolved to the given account code.
func (s *SQLiteStorage) ListByAccountCode(ctx context.Context, accountCode string) ([]service.ClassifiedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountCode, "accountCode"); err != nil {
		return nil, err
	}

	return s.queryClassified(ctx,
		classifiedQuery+" WHERE c.account_code = ? ORDER BY t.date ASC, t.id ASC",
		accountCode)
}

// ApplyBulkClassification reassigns the given transactions to an account code
// under a batch identifier. Replaying a batch identifier is a no-op returning
// zero updates.
func (s *SQLiteStorage) ApplyBulkClassification(ctx context.Context, batchID, accountCode, ruleName string, transactionIDs []string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if strings.TrimSpace(batchID) == "" {
		return 0, ErrInvalidBatchID
	}
	if err := validateString(accountCode, "accountCode"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var applied int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bulk_batches WHERE id = ?", batchID).Scan(&applied)
	if err != nil {
		return 0, fmt.Errorf("failed to check batch: %w", err)
	}
	if applied > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classifications (
			transaction_id, description, account_code, rule_name,
			detail, confidence, is_fallback, classified_at
		)
		SELECT id, description, ?, ?, '', 1.0, 0, CURRENT_TIMESTAMP
		FROM transactions WHERE id = ?
		ON CONFLICT(transaction_id) DO UPDATE SET
			account_code = excluded.account_code,
			rule_name = excluded.rule_name,
			confidence = excluded.confidence,
			is_fallback = 0,
			classified_at = excluded.classified_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bulk update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var updated int64
	for _, id := range transactionIDs {
		result, execErr := stmt.ExecContext(ctx, accountCode, ruleName, id)
		if execErr != nil {
			return 0, fmt.Errorf("failed to reclassify %s: %w", id, execErr)
		}
		n, raErr := result.RowsAffected()
		if raErr != nil {
			return 0, fmt.Errorf("failed to count reclassified rows: %w", raErr)
		}
		updated += n
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bulk_batches (id, account_code, rule_name, updated_count) VALUES (?, ?, ?, ?)",
		batchID, accountCode, ruleName, updated)
	if err != nil {
		return 0, fmt.Errorf("failed to record batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk reclassification: %w", err)
	}
	return updated, nil
}

const classifiedQuery = `
	SELECT t.id, t.description, t.amount, t.date,
		c.description, c.account_code, c.rule_name, c.detail,
		c.confidence, c.is_fallback, c.classified_at
	FROM classifications c
	JOIN transactions t ON t.id = c.transaction_id
`

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func (s *SQLiteStorage) queryClassified(ctx context.Context, query string, args ...any) ([]service.ClassifiedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []service.ClassifiedTransaction
	for rows.Next() {
		ct, scanErr := scanClassified(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", scanErr)
		}
		out = append(out, *ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classifications: %w", err)
	}
	return out, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var amount string
	if err := row.Scan(&txn.ID, &txn.Description, &amount, &txn.Date); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	txn.Amount = parsed
	return &txn, nil
}

func scanClassified(row rowScanner) (*service.ClassifiedTransaction, error) {
	var ct service.ClassifiedTransaction
	var amount string
	var accountCode, ruleName, detail sql.NullString
	err := row.Scan(
		&ct.Transaction.ID, &ct.Transaction.Description, &amount, &ct.Transaction.Date,
		&ct.Classification.Description, &accountCode, &ruleName, &detail,
		&ct.Classification.Confidence, &ct.Classification.IsFallback,
		&ct.Classification.ClassifiedAt,
	)
	if err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	ct.Transaction.Amount = parsed
	ct.Classification.AccountCode = accountCode.String
	ct.Classification.RuleName = ruleName.String
	ct.Classification.Detail = detail.String
	return &ct, nil
}
