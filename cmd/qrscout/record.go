package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Print the tab-delimited record for the current values",
	Long: `Print the tab-delimited record for the current values.

Values are given with --set and are not saved. The record is refused while
required fields are missing unless --force is given. With --submit the
record is also published to QRSCOUT_NATS_URL.`,
	GroupID: "form",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sets, _ := cmd.Flags().GetStringArray("set")
		force, _ := cmd.Flags().GetBool("force")
		submit, _ := cmd.Flags().GetBool("submit")
		header, _ := cmd.Flags().GetBool("header")

		eng, err := newSession(ctx, nil)
		if err != nil {
			return err
		}
		defer eng.Close()

		if err := applyAssignments(ctx, eng, sets); err != nil {
			return err
		}

		var line string
		switch {
		case submit:
			l, missing, err := eng.Submit(ctx)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				printMissing(os.Stderr, eng.Config(), missing)
				return fmt.Errorf("record not submitted")
			}
			line = l
		default:
			if missing := eng.MissingRequiredFields(); len(missing) > 0 && !force {
				printMissing(os.Stderr, eng.Config(), missing)
				return fmt.Errorf("required fields missing (use --force to print anyway)")
			}
			line = eng.Record()
		}

		if jsonOutput {
			printJSON(map[string]string{"header": eng.Header(), "record": line})
			return nil
		}
		if header {
			fmt.Println(eng.Header())
		}
		fmt.Println(line)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringArray("set", nil, "set a value (section.code=value, repeatable)")
	recordCmd.Flags().Bool("force", false, "print the record even if required fields are missing")
	recordCmd.Flags().Bool("submit", false, "publish the record as a submission")
	recordCmd.Flags().Bool("header", false, "print the field codes on the line before the record")
}
