package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veldbooks/veld/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List registered ledger account codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := initRegistry()
			if err != nil {
				return fmt.Errorf("failed to build account registry: %w", err)
			}

			filter, _ := cmd.Flags().GetString("category")
			if filter != "" && !model.Category(filter).Valid() {
				return fmt.Errorf("unknown category %q", filter)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCATEGORY\tSTANDARD")
			for _, ac := range reg.AllCodes() {
				if filter != "" && ac.Category != model.Category(filter) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", ac.Code, ac.DisplayName, ac.Category, ac.IsStandard)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("category", "", "filter by category (asset, liability, equity, revenue, cost_of_sales, operating_expense, employee_cost)")

	return cmd
}
