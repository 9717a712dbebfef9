package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:     "forget",
	Short:   "Delete the stored schema and go back to the built-in form",
	GroupID: "schema",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := newSession(ctx, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		if err := eng.Forget(ctx); err != nil {
			return err
		}
		fmt.Printf("Stored schema %q deleted\n", cfg.StoreKey)
		return nil
	},
}
