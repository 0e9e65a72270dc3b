package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matrix",
		Short: "Build and inspect product variant matrices offline",
		Long: `matrix builds a variant matrix from option sections the same way the
admin editor does, and prints it as a table, JSON, CSV or XLSX.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newChipsCmd())
	return root
}
