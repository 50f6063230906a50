package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/label-ocr/internal/config"
	"github.com/ironsheep/label-ocr/internal/server"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run label-ocr as an MCP (Model Context Protocol) server.

Requests are read as JSON-RPC 2.0 from stdin, one per line, and responses
are written to stdout. Logs go to stderr.

Tools:
  label_extract        parse label text, nothing is saved
  label_scan_text      parse label text and append it to the ledger
  label_scan_image     OCR an image file and append the result
  label_scan_data_url  OCR a base64 data URL capture and append the result
  ledger_read          list stored records
  ocr_info             report Tesseract availability

With --watch the config file is reloaded on change; the new ledger path,
upload directory and preprocessing settings apply to later scans.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, engine := newPipeline(true)

		if serveWatch && cfgManager.ConfigFile() != "" {
			cfgManager.OnChange(func(cfg *config.Config) {
				p.Reconfigure(cfg.Pipeline())
			})
			cfgManager.Watch(func(err error) {
				logger.Error("config reload failed, keeping previous config", "error", err)
			})
		}

		srv := server.New(p,
			server.WithVersion(Version),
			server.WithLogger(logger),
			server.WithOCRInfo(func() interface{} { return engine.Info() }),
		)

		logger.Info("label-ocr MCP server starting",
			"version", Version,
			"ledger_path", p.Config().LedgerPath,
		)

		errc := make(chan error, 1)
		go func() { errc <- srv.Run() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload the config file when it changes")

	rootCmd.AddCommand(serveCmd)
}
