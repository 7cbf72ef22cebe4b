package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the work types in the loaded coefficient catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := service.Catalog()
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c.List())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Catalog version %s\n\n", c.Version())
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPRODUCTIVITY\tCOMPLEXITY\tVARIANCE\tMIN HC\tROLE")
		for _, wt := range c.List() {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
				wt.ID, wt.Name, wt.ProductivityRate, wt.ComplexityFactor, wt.VarianceLevel, wt.MinHeadcountRule, wt.RoleKey)
		}
		return tw.Flush()
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
}
