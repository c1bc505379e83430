package cmd

import (
	"github.com/spf13/cobra"
)

var pluginsListCmd = &cobra.Command{
	Use:   "plugins:list",
	Short: "List the discovered inventory source plugins",
	Long: `List the registered inventory source plugins, in registration order,
without the reserved constructed plugin.

Examples:
  invsources plugins:list
  invsources plugins:list -f table
  invsources plugins:list | jq '.[]'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := rt.pipeline.PluginNames(cmd.Context())
		if err != nil {
			return err
		}
		return rt.formatter.FormatPluginNames(names)
	},
}

func init() {
	rootCmd.AddCommand(pluginsListCmd)
}
