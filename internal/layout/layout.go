// Package layout describes recognized text and where each word sits on the
// source image. It is the exchange format between the OCR engine and the
// label pipeline, and carries no OCR dependency itself.
package layout

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1" yaml:"x1"` // Left edge
	Y1 int `json:"y1" yaml:"y1"` // Top edge
	X2 int `json:"x2" yaml:"x2"` // Right edge
	Y2 int `json:"y2" yaml:"y2"` // Bottom edge
}

// Word is a recognized word with its location and OCR confidence.
type Word struct {
	Text string `json:"text" yaml:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence" yaml:"confidence"`

	Bounds Bounds `json:"bounds" yaml:"bounds"`
}

// Page contains the text recognized in one image.
type Page struct {
	// Text is all recognized text with the engine's spacing and newlines.
	Text string `json:"text" yaml:"text"`

	// Words may be empty if bounding box extraction fails.
	Words []Word `json:"words" yaml:"words"`
}

// MeanConfidence averages the word confidences. A page without words
// reports 0.
func (p *Page) MeanConfidence() float64 {
	if p == nil || len(p.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range p.Words {
		sum += w.Confidence
	}
	return sum / float64(len(p.Words))
}
