package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/cli"
	"github.com/veldbooks/veld/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeactivateCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ListRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}
			if len(rules) == 0 {
				fmt.Fprintln(os.Stdout, cli.FormatWarning("No rules persisted; run 'veld sync' to seed the standard catalogue"))
				return nil
			}

			activeOnly, _ := cmd.Flags().GetBool("active")

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTRATEGY\tPATTERN\tACCOUNT\tPRIORITY\tACTIVE")
			for _, r := range rules {
				if activeOnly && !r.Active {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n",
					r.Name, r.Strategy, r.Pattern, r.AccountCode, r.Priority, r.Active)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("active", false, "show only active rules")

	return cmd
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a persisted rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			strategy, _ := cmd.Flags().GetString("strategy")
			pattern, _ := cmd.Flags().GetString("pattern")
			accountCode, _ := cmd.Flags().GetString("account")
			priority, _ := cmd.Flags().GetInt("priority")
			confidence, _ := cmd.Flags().GetFloat64("confidence")
			description, _ := cmd.Flags().GetString("description")

			rule := model.Rule{
				Name:        args[0],
				Description: description,
				Strategy:    model.MatchStrategy(strategy),
				Pattern:     pattern,
				AccountCode: accountCode,
				Priority:    priority,
				Confidence:  confidence,
				Origin:      model.OriginPersisted,
				Active:      true,
			}
			if err := rule.Validate(); err != nil {
				return err
			}

			reg, err := initRegistry()
			if err != nil {
				return fmt.Errorf("failed to build account registry: %w", err)
			}
			account, err := reg.Resolve(rule.AccountCode)
			if err != nil {
				return fmt.Errorf("target account: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateRule(ctx, &rule); err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
				"Rule %q added, targeting %s %s", rule.Name, account.Code, account.DisplayName)))
			return nil
		},
	}

	cmd.Flags().String("strategy", string(model.StrategyContains), "match strategy (contains, starts_with, ends_with, equals, regex)")
	cmd.Flags().String("pattern", "", "pattern to match against descriptions")
	cmd.Flags().String("account", "", "target ledger account code")
	cmd.Flags().Int("priority", 50, "rule priority; higher wins")
	cmd.Flags().Float64("confidence", 1.0, "confidence reported on matches")
	cmd.Flags().String("description", "", "free-form rule description")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func rulesDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <name>",
		Short: "Deactivate a rule without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateRule(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf("Rule %q deactivated", args[0])))
			return nil
		},
	}
}
