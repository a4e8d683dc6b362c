package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/cli"
	"github.com/veldbooks/veld/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import bank statement lines from a CSV file",
		Long: `Import statement lines from a CSV file with columns:

    id,date,description,amount

Dates are parsed as YYYY-MM-DD. Re-importing a file is safe; rows with a
known ID overwrite the stored row.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	transactions, err := readStatementCSV(args[0])
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("No statement lines found"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Imported %d statement lines", len(transactions))))
	return nil
}

func readStatementCSV(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4

	var transactions []model.Transaction
	line := 0
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read statement file: %w", readErr)
		}
		line++

		// Skip a header row.
		if line == 1 && record[0] == "id" {
			continue
		}

		date, parseErr := time.Parse("2006-01-02", record[1])
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, record[1], parseErr)
		}

		amount, parseErr := decimal.NewFromString(record[3])
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, record[3], parseErr)
		}

		transactions = append(transactions, model.Transaction{
			ID:          record[0],
			Date:        date,
			Description: record[2],
			Amount:      amount,
		})
	}

	return transactions, nil
}
