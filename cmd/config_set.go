package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/invsources/internal/config"
)

var configSetCmd = &cobra.Command{
	Use:   "config:set <key> <value>",
	Short: "Set a value in the config file",
	Long: `Set a single dotted key in the active config file, keeping comments
and other settings intact.

Keys:
  ` + strings.Join(config.SettableKeys(), "\n  ") + `

Examples:
  invsources config:set output.format table
  invsources config:set registry.injectors_file ./extra.yaml
  invsources config:set tracing.enabled true`,
	Args: cobra.ExactArgs(2),
	// The registry is not needed to edit the config.
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configSetCmd)
}
