package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// PreprocessOptions controls the optional cleanup applied before OCR.
type PreprocessOptions struct {
	// Enabled turns preprocessing on. When false, Preprocess returns its input.
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// MinWidth upscales images narrower than this many pixels, keeping the
	// aspect ratio. Zero disables upscaling.
	MinWidth int `mapstructure:"min_width" json:"min_width"`

	// Contrast is passed to imaging.AdjustContrast, in percent (-100..100).
	Contrast float64 `mapstructure:"contrast" json:"contrast"`

	// Sharpen applies a 3x3 sharpening kernel after the other steps.
	Sharpen bool `mapstructure:"sharpen" json:"sharpen"`

	// InvertDark inverts images whose mean lightness is below 0.5, so light
	// text printed on a dark label becomes dark on light.
	InvertDark bool `mapstructure:"invert_dark" json:"invert_dark"`
}

// DefaultPreprocessOptions returns the settings used when preprocessing is
// switched on without further tuning.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Enabled:    false,
		MinWidth:   1000,
		Contrast:   20,
		Sharpen:    true,
		InvertDark: true,
	}
}

// Preprocess returns a grayscale copy of img adjusted according to opts.
//
// Steps run in a fixed order: upscale, grayscale, invert (if dark),
// contrast, sharpen. The input image is never modified.
func Preprocess(img image.Image, opts PreprocessOptions) image.Image {
	if !opts.Enabled {
		return img
	}

	out := imaging.Clone(img)

	if opts.MinWidth > 0 && out.Bounds().Dx() < opts.MinWidth {
		out = imaging.Resize(out, opts.MinWidth, 0, imaging.Lanczos)
	}

	out = imaging.Grayscale(out)

	if opts.InvertDark && MeanLightness(out) < 0.5 {
		out = imaging.Invert(out)
	}

	if opts.Contrast != 0 {
		out = imaging.AdjustContrast(out, opts.Contrast)
	}

	if opts.Sharpen {
		return effect.Sharpen(out)
	}
	return out
}

// MeanLightness returns the average CIE L* lightness of img in [0, 1],
// sampled on a grid of at most about 64x64 points. Fully transparent pixels
// are skipped. An empty image reports 1 (treated as a light background).
func MeanLightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 1
	}

	stepX := max(1, b.Dx()/64)
	stepY := max(1, b.Dy()/64)

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}

	if n == 0 {
		return 1
	}
	return sum / float64(n)
}
