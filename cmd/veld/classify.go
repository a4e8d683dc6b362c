package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/cli"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify all pending transactions",
		Long: `Classify every stored transaction that has no recorded outcome.

The rule set is reconciled before classification runs; any rule conflicts
are reported and the conflicted rules sit out until resolved.`,
		RunE: runClassify,
	}

	cmd.Flags().String("description", "", "classify a single description instead of the stored backlog")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	reg, err := initRegistry()
	if err != nil {
		return fmt.Errorf("failed to build account registry: %w", err)
	}

	eng, err := initEngine(store, reg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	result, err := eng.Refresh(ctx)
	if err != nil {
		return err
	}
	if !result.Report.Empty() {
		fmt.Fprintln(os.Stdout, cli.RenderConflictReport(result.Report))
	}

	if description, _ := cmd.Flags().GetString("description"); description != "" {
		return classifyOne(eng, reg, description)
	}

	pending, err := store.ListTransactionsToClassify(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("Nothing to classify"))
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying transactions..."),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	stats, err := eng.ClassifyAll(ctx, func(_, _ int) {
		_ = bar.Add(1)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
		"Classified %d transactions: %d matched, %d flagged for review",
		stats.Total, stats.Matched, stats.Fallback)))
	return nil
}

// classifyOne resolves a single description and prints the outcome without
// persisting anything.
func classifyOne(eng classifier, reg accountResolver, description string) error {
	result, err := eng.Classify(description)
	if err != nil {
		return err
	}

	if result.IsFallback && result.AccountCode == "" {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("No rule matched; transaction stays unclassified"))
		return nil
	}

	account, err := reg.Resolve(result.AccountCode)
	if err != nil {
		// A rule surviving reconciliation always targets a known code.
		slog.Error("matched rule targets unknown account", "code", result.AccountCode)
		return err
	}

	label := "matched"
	if result.IsFallback {
		label = "fallback"
	}
	fmt.Fprintf(os.Stdout, "%s → %s %s (%s, rule %q, confidence %.2f)\n",
		description, account.Code, account.DisplayName, label, result.RuleName, result.Confidence)
	return nil
}
