package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/label-ocr/internal/extract"
)

// ledgerOutput is what the ledger command prints.
type ledgerOutput struct {
	Path    string           `json:"path" yaml:"path"`
	Count   int              `json:"count" yaml:"count"`
	Records []extract.Record `json:"records" yaml:"records"`
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the records stored in the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _ := newPipeline(false)

		records, err := p.Ledger()
		if err != nil {
			return err
		}
		return output(cmd, ledgerOutput{
			Path:    p.Config().LedgerPath,
			Count:   len(records),
			Records: records,
		})
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}
