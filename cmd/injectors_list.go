package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/invsources/internal/presentation"
)

var injectorsListCmd = &cobra.Command{
	Use:   "injectors:list",
	Short: "List every registered injector",
	Long: `List every entry of the plugin registry, including the reserved
constructed plugin, with the Ansible collection it comes from.

Examples:
  invsources injectors:list -f table
  invsources injectors:list --injectors ./extra.yaml
  invsources injectors:list | jq '.[].fqcn'`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return rt.formatter.FormatInjectors(presentation.FromInjectors(rt.registry.Injectors()))
	},
}

func init() {
	rootCmd.AddCommand(injectorsListCmd)
}
