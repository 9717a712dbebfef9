package main

import (
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the form with its current values",
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

		if jsonOutput {
			printJSON(eng.Config())
			return nil
		}
		printForm(os.Stdout, eng.Config())
		return nil
	},
}

func init() {
	showCmd.Flags().StringArray("set", nil, "set a value before showing (section.code=value, repeatable)")
}
