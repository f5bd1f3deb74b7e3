package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/clean"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/export"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/ingest"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/model"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/recon"
)

var (
	authorityPath string
	invoicesPath  string
	configPath    string
	outPath       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a reconciliation over two files",
	Long: `Parses and cleans the authority (GSTR-2A) and invoice files, runs the
matching engine and prints a summary. With --out the full report is written
as an XLSX workbook.

The optional --config YAML file overrides the matching tolerance:

  amount: "1.00"     # absolute amount tolerance
  percent: "1"       # percent of the authority taxable value
  date_days: 0       # day window for secondary-key matches`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tol, err := loadTolerance(configPath)
		if err != nil {
			return err
		}

		authority, err := loadRecords(authorityPath, model.FamilyGSTR2A)
		if err != nil {
			return err
		}
		invoices, err := loadRecords(invoicesPath, model.FamilyInvoice)
		if err != nil {
			return err
		}

		report, err := recon.Reconcile(tol, authority, invoices)
		if err != nil {
			return err
		}
		report.AuthorityBatchName = authorityPath
		report.InvoiceBatchName = invoicesPath

		printSummary(report)

		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			if err := export.WriteExcel(report, f); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("report written to %s\n", outPath)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&authorityPath, "authority", "", "GSTR-2A file (CSV or XLSX)")
	runCmd.Flags().StringVar(&invoicesPath, "invoices", "", "invoice file (CSV or XLSX)")
	runCmd.Flags().StringVar(&configPath, "config", "", "tolerance configuration YAML")
	runCmd.Flags().StringVar(&outPath, "out", "", "write the full report as XLSX to this path")
	runCmd.MarkFlagRequired("authority")
	runCmd.MarkFlagRequired("invoices")

	rootCmd.AddCommand(runCmd)
}

// toleranceFile is the --config YAML shape. Amounts are strings so values
// like "1.00" keep their scale.
type toleranceFile struct {
	Amount   string `yaml:"amount"`
	Percent  string `yaml:"percent"`
	DateDays *int   `yaml:"date_days"`
}

func loadTolerance(path string) (recon.Tolerance, error) {
	tol := recon.DefaultTolerance()
	if path == "" {
		return tol, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tol, fmt.Errorf("read config: %w", err)
	}
	var tf toleranceFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return tol, fmt.Errorf("parse config: %w", err)
	}

	if tf.Amount != "" {
		if tol.Amount, err = decimal.NewFromString(tf.Amount); err != nil {
			return tol, fmt.Errorf("config amount: %w", err)
		}
	}
	if tf.Percent != "" {
		if tol.Percent, err = decimal.NewFromString(tf.Percent); err != nil {
			return tol, fmt.Errorf("config percent: %w", err)
		}
	}
	if tf.DateDays != nil {
		tol.DateDays = *tf.DateDays
	}
	return tol, tol.Validate()
}

func loadRecords(path string, family model.FileFamily) ([]model.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ingest.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	res := clean.Normalize(rows, family)
	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "%s line %d: %s\n", path, rej.Line, rej.Message)
	}
	if res.DuplicatesDropped > 0 {
		fmt.Fprintf(os.Stderr, "%s: dropped %d exact duplicate rows\n", path, res.DuplicatesDropped)
	}
	return res.Records, nil
}

func printSummary(report *model.ReconciliationReport) {
	fmt.Printf("authority file:      %s\n", report.AuthorityBatchName)
	fmt.Printf("invoice file:        %s\n", report.InvoiceBatchName)
	fmt.Printf("matched exact:       %d\n", report.MatchedCount)
	fmt.Printf("matched variance:    %d\n", report.VarianceCount)
	fmt.Printf("unmatched authority: %d\n", report.UnmatchedAuthorityCount)
	fmt.Printf("unmatched invoice:   %d\n", report.UnmatchedInvoiceCount)
	fmt.Printf("duplicate suspects:  %d\n", report.DuplicateCount)
	fmt.Printf("match rate:          %.2f%%\n", report.MatchRate*100)
	if len(report.RecordErrors) > 0 {
		fmt.Printf("excluded records:    %d\n", len(report.RecordErrors))
	}
}
