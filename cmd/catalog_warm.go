package cmd

import (
	"github.com/spf13/cobra"
)

var catalogWarmCmd = &cobra.Command{
	Use:   "catalog:warm",
	Short: "Compute every catalogue stage and report the computation counts",
	Long: `Compute the plugin names, source catalogue and combined options, then
read each of them again, and report how many times each stage computed.
Every count is 1 on a healthy registry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := rt.pipeline.Warm(ctx); err != nil {
			return err
		}
		if _, err := rt.pipeline.PluginNames(ctx); err != nil {
			return err
		}
		if _, err := rt.pipeline.SourceCatalog(ctx); err != nil {
			return err
		}
		return rt.formatter.FormatStats(rt.pipeline.Stats())
	},
}

func init() {
	rootCmd.AddCommand(catalogWarmCmd)
}
