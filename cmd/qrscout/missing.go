package main

import (
	"os"

	"github.com/spf13/cobra"
)

var missingCmd = &cobra.Command{
	Use:     "missing",
	Short:   "List required fields that have no value",
	GroupID: "form",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := newSession(ctx, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		sets, _ := cmd.Flags().GetStringArray("set")
		if err := applyAssignments(ctx, eng, sets); err != nil {
			return err
		}

		missing := eng.MissingRequiredFields()
		if jsonOutput {
			printJSON(missingEntries(eng.Config(), missing))
			return nil
		}
		printMissing(os.Stdout, eng.Config(), missing)
		return nil
	},
}

func init() {
	missingCmd.Flags().StringArray("set", nil, "set a value before checking (section.code=value, repeatable)")
}
