package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/label-ocr/internal/config"
	"github.com/ironsheep/label-ocr/internal/ocr"
	"github.com/ironsheep/label-ocr/internal/pipeline"
)

var (
	cfgFile      string
	outputFormat string
)

// Loaded by the root command before any subcommand runs.
var (
	cfgManager *config.Manager
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "label-ocr",
	Short: "Read manufacturing details off product label images",
	Long: `label-ocr runs OCR on product label images and extracts four fields:
manufacturing date, batch number, net weight and MRP. Every scan is appended
as a row to an Excel ledger (ocr_data.xlsx by default).

It can run as an MCP server over stdio or as a one-shot command line tool.

Configuration is read from ./label-ocr.yaml, ~/.label-ocr/label-ocr.yaml or
the file given with --config, and can be overridden with LABEL_OCR_*
environment variables (e.g. LABEL_OCR_LEDGER_PATH, LABEL_OCR_LOG_LEVEL).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setOutputFormat(outputFormat); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgManager = cm

		// stdout carries MCP traffic and command output, so logs go to stderr
		cfg := cm.Get()
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		}))
		slog.SetDefault(logger)

		if f := cm.ConfigFile(); f != "" {
			logger.Debug("loaded config", "file", f)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./label-ocr.yaml or ~/.label-ocr/label-ocr.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
}

// newEngine builds the OCR engine for the loaded config.
func newEngine(cfg *config.Config) *ocr.Tesseract {
	return ocr.New(cfg.Language, cfg.TessdataPrefix)
}

// newPipeline builds a pipeline for the loaded config. withOCR=false gives a
// text-only pipeline that never touches Tesseract.
func newPipeline(withOCR bool) (*pipeline.Pipeline, *ocr.Tesseract) {
	cfg := cfgManager.Get()
	if !withOCR {
		return pipeline.New(cfg.Pipeline(), nil, logger), nil
	}
	engine := newEngine(cfg)
	return pipeline.New(cfg.Pipeline(), engine, logger), engine
}

// persistFailed turns an unsaved scan into a non-zero exit after its
// result has been printed.
func persistFailed(results ...*pipeline.Result) error {
	failed := 0
	for _, r := range results {
		if r != nil && !r.Persisted {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d records were not saved to the ledger", failed, len(results))
}
