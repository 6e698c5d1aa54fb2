package main

import (
	"fmt"
	"os"
	"reports-api/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "reportsctl",
	Short:         "Run report maintenance pipelines against the configured store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.LoadEnvVariables(); err != nil {
			return err
		}
		_, err := utils.NewLogger()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd, approveAllCmd, filtersCmd, newMapMetricsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reportsctl: %v\n", err)
		os.Exit(1)
	}
}
