package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the effective configuration as TOML.

Settings come from $QRSCOUT_CONFIG or ~/.config/qrscout/config.toml, then
QRSCOUT_* environment variables. The output can be saved as a config file.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			printJSON(cfg)
			return nil
		}
		if cfg.Path() != "" {
			os.Stdout.WriteString("# from " + cfg.Path() + "\n")
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}
