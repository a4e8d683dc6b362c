package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/cli"
	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/reconcile"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile standard rules with the database",
		Long: `Merge the built-in standard rule catalogue with the persisted rules.

Standard rules not yet in the database are added. Where a persisted rule
shares a name with a standard rule but targets a different account, both are
excluded and reported as a conflict until resolved.`,
		RunE: runSync,
	}

	cmd.Flags().StringToString("resolve", nil, "conflict resolutions, rule name to winning origin (standard or persisted)")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
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

	resolutions, err := parseResolutions(cmd)
	if err != nil {
		return err
	}

	svc := reconcile.NewService(store, reg)
	result, err := svc.SyncResolved(ctx, resolutions)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.FormatSuccess(fmt.Sprintf(
		"Rule set reconciled: %d active rules, %d standard rules added",
		result.Set.Len(), len(result.Added))))
	fmt.Fprintln(os.Stdout, cli.RenderConflictReport(result.Report))
	return nil
}

func parseResolutions(cmd *cobra.Command) (map[string]model.RuleOrigin, error) {
	raw, _ := cmd.Flags().GetStringToString("resolve")
	if len(raw) == 0 {
		return nil, nil
	}

	resolutions := make(map[string]model.RuleOrigin, len(raw))
	for name, origin := range raw {
		switch model.RuleOrigin(origin) {
		case model.OriginStandard, model.OriginPersisted:
			resolutions[name] = model.RuleOrigin(origin)
		default:
			return nil, fmt.Errorf("invalid resolution origin %q for rule %q (want standard or persisted)", origin, name)
		}
	}
	return resolutions, nil
}
