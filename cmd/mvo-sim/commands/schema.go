package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema request files are validated against",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := sizing.RequestSchema()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	},
}
