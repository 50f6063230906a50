package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/label-ocr/internal/pipeline"
)

var (
	scanDataURL bool
	scanWords   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [image...]",
	Short: "OCR label images and append the extracted fields to the ledger",
	Long: `Scan one or more label images.

Each image is copied into the upload directory, run through Tesseract, and
the extracted fields are appended to the ledger. An image that cannot be
read or recognized does not stop the remaining ones. Every result is
printed, and the exit status is non-zero if any image failed or any record
could not be saved.

With --data-url a single data:image/...;base64,... string is read from
stdin instead (e.g. a browser webcam capture).

Examples:
  label-ocr scan photo.jpg
  label-ocr scan -o json a.png b.png
  label-ocr scan --data-url < capture.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _ := newPipeline(true)

		if scanDataURL {
			if len(args) > 0 {
				return fmt.Errorf("--data-url reads from stdin and takes no arguments")
			}
			return scanStdinDataURL(cmd, p)
		}

		if len(args) == 0 {
			return fmt.Errorf("no image given")
		}

		results, scanErr := scanFiles(cmd.Context(), p, args, logger)
		if len(results) > 0 {
			var out any = results
			if len(args) == 1 {
				out = results[0]
			}
			if err := output(cmd, out); err != nil {
				return err
			}
		}
		return errors.Join(scanErr, persistFailed(results...))
	},
}

// scanFiles scans every path in order. A failing image is logged and
// skipped so the results of the others are still returned; the failures
// come back joined in the error.
func scanFiles(ctx context.Context, p *pipeline.Pipeline, paths []string, log *slog.Logger) ([]*pipeline.Result, error) {
	results := make([]*pipeline.Result, 0, len(paths))
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := p.ScanFile(path)
		if err != nil {
			log.Error("scan failed", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("failed to scan %s: %w", path, err))
			continue
		}
		results = append(results, scanResult(res))
	}
	return results, errors.Join(errs...)
}

func scanStdinDataURL(cmd *cobra.Command, p *pipeline.Pipeline) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	res, err := p.ScanDataURL(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	res = scanResult(res)
	if err := output(cmd, res); err != nil {
		return err
	}
	return persistFailed(res)
}

// scanResult drops word boxes unless --words was given.
func scanResult(res *pipeline.Result) *pipeline.Result {
	if scanWords {
		return res
	}
	return res.WithoutWords()
}

func init() {
	scanCmd.Flags().BoolVar(&scanDataURL, "data-url", false, "read a base64 image data URL from stdin")
	scanCmd.Flags().BoolVar(&scanWords, "words", false, "include recognized words with bounding boxes")

	rootCmd.AddCommand(scanCmd)
}
