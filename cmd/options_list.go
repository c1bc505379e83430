package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/invsources/internal/presentation"
)

var optionsRaw bool

var optionsListCmd = &cobra.Command{
	Use:   "options:list",
	Short: "Show the inventory source choices offered to clients",
	Long: `Show the combined inventory source options: the source catalogue plus
file. By default the options are written as value/label choices, labelled
from the registry. Use --raw for the plain ordered mapping.

Examples:
  invsources options:list
  invsources options:list -f table
  invsources options:list --raw`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		options, err := rt.pipeline.CombinedOptions(cmd.Context())
		if err != nil {
			return err
		}
		if optionsRaw {
			return rt.formatter.FormatCatalog(options)
		}
		return rt.formatter.FormatChoices(presentation.FromCatalog(options, presentation.RegistryLabels(rt.registry)))
	},
}

func init() {
	optionsListCmd.Flags().BoolVar(&optionsRaw, "raw", false, "write the ordered mapping instead of choices")
	rootCmd.AddCommand(optionsListCmd)
}
