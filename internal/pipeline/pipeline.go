// Package pipeline wires OCR, field extraction and the ledger together.
//
// A Pipeline is the integrating system for the ledger: it serializes every
// append it performs, so any number of goroutines may scan through the same
// Pipeline. Two Pipelines (or two processes) pointed at the same ledger
// path are not coordinated.
package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/label-ocr/internal/extract"
	"github.com/ironsheep/label-ocr/internal/imaging"
	"github.com/ironsheep/label-ocr/internal/layout"
	"github.com/ironsheep/label-ocr/internal/ledger"
)

// Recognizer turns an image into text with word boxes. ocr.Tesseract
// satisfies it.
type Recognizer interface {
	Recognize(img image.Image) (*layout.Page, error)
}

// Config is the explicit I/O configuration of a Pipeline.
type Config struct {
	LedgerPath   string
	UploadDir    string
	KeepCaptures bool
	SaveAttempts uint
	Preprocess   imaging.PreprocessOptions
}

// Result is the outcome of one scan. The Record is always present once
// extraction ran; Persisted reports separately whether it reached the
// ledger.
type Result struct {
	Record  extract.Record `json:"record" yaml:"record"`
	RawText string         `json:"raw_text" yaml:"raw_text"`

	// Source names where the text came from: an uploaded file path, a
	// stored capture path, "capture" or "text".
	Source string `json:"source" yaml:"source"`

	Persisted    bool   `json:"persisted" yaml:"persisted"`
	PersistError string `json:"persist_error,omitempty" yaml:"persist_error,omitempty"`

	// Confidence is the mean OCR word confidence; Words the recognized
	// words with their boxes. Both are empty for text scans.
	Confidence float64       `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Words      []layout.Word `json:"words,omitempty" yaml:"words,omitempty"`
}

// WithoutWords returns a copy of r without the word boxes, for callers that
// only want the record.
func (r *Result) WithoutWords() *Result {
	out := *r
	out.Words = nil
	return &out
}

// Pipeline runs scans against one configuration.
type Pipeline struct {
	cfg    Config
	ocr    Recognizer
	logger *slog.Logger

	mu     sync.Mutex // serializes ledger appends
	writer *ledger.Writer
}

// New creates a Pipeline. rec may be nil for text-only use; image scans
// then fail with an error.
func New(cfg Config, rec Recognizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		ocr:    rec,
		logger: logger,
		writer: newWriter(cfg, logger),
	}
}

func newWriter(cfg Config, logger *slog.Logger) *ledger.Writer {
	return ledger.NewWriter(cfg.LedgerPath,
		ledger.WithAttempts(cfg.SaveAttempts),
		ledger.WithLogger(logger),
	)
}

// Config returns the configuration in effect.
func (p *Pipeline) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Reconfigure swaps in a new configuration, e.g. after a config file
// reload. Appends already in progress finish against the old ledger path.
func (p *Pipeline) Reconfigure(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	p.writer = newWriter(cfg, p.logger)
	p.logger.Info("pipeline reconfigured", "ledger_path", cfg.LedgerPath, "upload_dir", cfg.UploadDir)
}

// ExtractText parses text without persisting anything.
func (p *Pipeline) ExtractText(text string) extract.Record {
	return extract.Extract(text)
}

// ScanText extracts a record from text and appends it to the ledger.
func (p *Pipeline) ScanText(text string) *Result {
	return p.persist(text, "text")
}

// ScanImage runs OCR on img, then extracts and persists the record.
func (p *Pipeline) ScanImage(img image.Image) (*Result, error) {
	return p.scanImage(img, "capture")
}

// ScanFile scans an image file, treating it as an upload: it is copied into
// the upload directory under its base name before OCR.
func (p *Pipeline) ScanFile(path string) (*Result, error) {
	if inDir(path, p.Config().UploadDir) {
		img, _, err := imaging.Load(path)
		if err != nil {
			return nil, err
		}
		return p.scanImage(img, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return p.ScanUpload(path, f)
}

// ScanUpload stores an uploaded image in the upload directory, decodes it
// and scans it.
func (p *Pipeline) ScanUpload(name string, r io.Reader) (*Result, error) {
	cfg := p.Config()

	stored, err := imaging.SaveUpload(cfg.UploadDir, name, r)
	if err != nil {
		return nil, err
	}

	img, _, err := imaging.Load(stored)
	if err != nil {
		return nil, err
	}
	return p.scanImage(img, stored)
}

// ScanDataURL decodes a base64 image data URL, as sent by a browser camera
// capture, and scans it. With KeepCaptures the raw bytes are stored in the
// upload directory first.
func (p *Pipeline) ScanDataURL(dataURL string) (*Result, error) {
	cfg := p.Config()
	if !cfg.KeepCaptures {
		img, _, err := imaging.DecodeDataURL(dataURL)
		if err != nil {
			return nil, err
		}
		return p.scanImage(img, "capture")
	}

	data, err := imaging.ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	img, format, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	source := "capture"
	stored, err := imaging.SaveCapture(cfg.UploadDir, data, format)
	if err != nil {
		// Keeping the capture is a convenience; OCR proceeds without it.
		p.logger.Warn("failed to store capture", "error", err)
	} else {
		source = stored
	}

	return p.scanImage(img, source)
}

// Ledger returns every record stored in the ledger so far.
func (p *Pipeline) Ledger() ([]extract.Record, error) {
	return ledger.Read(p.Config().LedgerPath)
}

// inDir reports whether path already lives directly in dir.
func inDir(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return filepath.Dir(absPath) == absDir
}

func (p *Pipeline) scanImage(img image.Image, source string) (*Result, error) {
	if p.ocr == nil {
		return nil, fmt.Errorf("no OCR engine configured")
	}

	img = imaging.Preprocess(img, p.Config().Preprocess)

	page, err := p.ocr.Recognize(img)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	if page == nil {
		page = &layout.Page{}
	}

	res := p.persist(page.Text, source)
	res.Words = page.Words
	res.Confidence = page.MeanConfidence()
	p.logger.Debug("ocr words", "source", source, "count", len(page.Words), "confidence", res.Confidence)
	return res, nil
}

func (p *Pipeline) persist(text, source string) *Result {
	rec := extract.Extract(text)
	p.logger.Info("extracted data",
		"source", source,
		extract.KeyManufacturingDate, rec.ManufacturingDate,
		extract.KeyBatchNumber, rec.BatchNumber,
		extract.KeyNetWeight, rec.NetWeight,
		extract.KeyMRP, rec.MRP,
	)

	p.mu.Lock()
	out := p.writer.Save(rec)
	p.mu.Unlock()

	res := &Result{
		Record:    rec,
		RawText:   text,
		Source:    source,
		Persisted: out.Persisted,
	}
	if out.Err != nil {
		res.PersistError = out.Err.Error()
	}
	return res
}
