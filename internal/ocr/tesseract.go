package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/label-ocr/internal/layout"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Tesseract runs OCR through gosseract. The zero value uses DefaultLanguage
// and Tesseract's built-in tessdata location.
//
// Each call creates its own gosseract client, so a Tesseract value is safe
// for concurrent use.
type Tesseract struct {
	Language       string
	TessdataPrefix string
}

// New returns a Tesseract for the given language and tessdata directory.
// Empty values select the defaults.
func New(language, tessdataPrefix string) *Tesseract {
	return &Tesseract{Language: language, TessdataPrefix: tessdataPrefix}
}

func (t *Tesseract) language() string {
	if t.Language == "" {
		return DefaultLanguage
	}
	return t.Language
}

func (t *Tesseract) client() (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.language()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return client, nil
}

// RecognizeFile performs OCR on the image file at imagePath.
//
// Supports whatever formats the installed Leptonica can read (PNG, JPEG,
// TIFF, BMP in common builds).
func (t *Tesseract) RecognizeFile(imagePath string) (*layout.Page, error) {
	client, err := t.client()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Return just text if boxes fail
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &layout.Page{Text: text, Words: []layout.Word{}}, nil
	}

	words := make([]layout.Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, layout.Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: layout.Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &layout.Page{Text: text, Words: words}, nil
}

// Recognize performs OCR on an in-memory image.
//
// The image is saved to a temporary PNG (tesseract needs a file path) which
// is deleted before returning.
func (t *Tesseract) Recognize(img image.Image) (*layout.Page, error) {
	tmpPath, err := SaveImageToTemp(img, "label-ocr")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	return t.RecognizeFile(tmpPath)
}

// Info describes the OCR backend.
type Info struct {
	Available      bool   `json:"available" yaml:"available"`
	Version        string `json:"version,omitempty" yaml:"version,omitempty"`
	Language       string `json:"language" yaml:"language"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty" yaml:"tessdata_prefix,omitempty"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`
	Backend        string `json:"backend" yaml:"backend"`
}

// Info reports whether Tesseract can be initialized with the configured
// language and which version is installed.
func (t *Tesseract) Info() Info {
	info := Info{
		Language:       t.language(),
		TessdataPrefix: t.TessdataPrefix,
		Backend:        "gosseract",
	}

	client, err := t.client()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer client.Close()

	info.Available = true
	info.Version = client.Version()
	return info
}

// SaveImageToTemp saves an image to a temporary PNG file and returns its path.
//
// The file name is <prefix>-<random>.png in the system temp directory.
// The caller is responsible for deleting the file with os.Remove().
func SaveImageToTemp(img image.Image, prefix string) (string, error) {
	tmpFile, err := os.CreateTemp("", prefix+"-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp image: %w", err)
	}

	return tmpPath, nil
}
