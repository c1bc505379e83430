package cmd

import (
	"github.com/spf13/cobra"
)

var sourcesListCmd = &cobra.Command{
	Use:   "sources:list",
	Short: "Show the cloud inventory source catalogue",
	Long: `Show the source catalogue: every discovered plugin mapped to itself,
followed by scm and constructed.

Examples:
  invsources sources:list
  invsources sources:list -f yaml
  invsources sources:list | jq 'keys_unsorted'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, err := rt.pipeline.SourceCatalog(cmd.Context())
		if err != nil {
			return err
		}
		return rt.formatter.FormatCatalog(sources)
	},
}

func init() {
	rootCmd.AddCommand(sourcesListCmd)
}
