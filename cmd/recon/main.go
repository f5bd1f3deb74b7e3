package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Reconcile GSTR-2A downloads against purchase invoices",
	Long: `recon matches authority-reported GSTR-2A records against the taxpayer's
own invoice records and reports exact matches, tolerated variances,
duplicates and unmatched documents.

Example:
  recon run --authority gstr2a_jan.csv --invoices purchases_jan.xlsx
  recon run --authority gstr2a_jan.csv --invoices purchases_jan.xlsx \
      --config tolerance.yaml --out report.xlsx`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
