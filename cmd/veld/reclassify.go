package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/cli"
	"github.com/veldbooks/veld/internal/reclassify"
)

func reclassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reclassify <description> <account-code>",
		Short: "Bulk-reclassify unclassified transactions similar to one correction",
		Long: `Given one corrected description and its account code, find unclassified
transactions sharing the same vendor keywords and propose moving them all to
that account. Nothing is applied until you confirm the proposal.`,
		Args: cobra.ExactArgs(2),
		RunE: runReclassify,
	}

	cmd.Flags().Int("limit", 50, "maximum number of similar transactions to propose")

	return cmd
}

func runReclassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	correctedDescription, accountCode := args[0], args[1]
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	reg, err := initRegistry()
	if err != nil {
		return fmt.Errorf("failed to build account registry: %w", err)
	}
	account, err := reg.Resolve(accountCode)
	if err != nil {
		return fmt.Errorf("target account: %w", err)
	}

	helper := reclassify.NewHelper(store, reg)
	proposal, err := helper.Propose(ctx, correctedDescription, accountCode, limit)
	if err != nil {
		return err
	}
	if len(proposal.TransactionIDs) == 0 {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("No similar unclassified transactions found"))
		return nil
	}

	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	if err := prompter.ReviewProposal(ctx, proposal, account.DisplayName); err != nil {
		return err
	}
	if proposal.State != reclassify.StateConfirmed {
		return nil
	}

	updated, err := helper.Apply(ctx, proposal)
	if err != nil {
		return fmt.Errorf("failed to apply proposal: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
		"Reclassified %d transactions to %s %s", updated, account.Code, account.DisplayName)))
	return nil
}
