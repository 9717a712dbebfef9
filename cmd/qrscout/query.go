package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/schema"
)

var queryCmd = &cobra.Command{
	Use:   "query <jsonpath>",
	Short: "Select parts of the schema with a JSONPath expression",
	Long: `Select parts of the schema with a JSONPath expression.

Examples:
  qrscout query '$.sections[*].name'
  qrscout query '$..fields[?(@.required == true)].code'
  qrscout query --snapshot '$.sections[0]'`,
	GroupID: "schema",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, _ := cmd.Flags().GetBool("snapshot")

		eng, err := newSession(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		c := eng.Config()
		if snapshot {
			c = eng.ExportSnapshot()
		}
		results, err := schema.Query(c, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(results)
			return nil
		}
		for _, r := range results {
			fmt.Println(formatResult(r))
		}
		return nil
	},
}

// formatResult prints strings bare and everything else as compact JSON.
func formatResult(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func init() {
	queryCmd.Flags().Bool("snapshot", false, "query the schema without values")
}
