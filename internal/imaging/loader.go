package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrNoFile is returned when an upload carries no file name.
	ErrNoFile = errors.New("no selected file")

	// ErrInvalidDataURL is returned when a capture string cannot be decoded
	// to image bytes.
	ErrInvalidDataURL = errors.New("invalid image data URL")
)

var dataURLPrefix = regexp.MustCompile(`^data:image/.+;base64,`)

// Load opens and decodes the image at path.
//
// Returns the decoded image and the format name reported by the registered
// decoder (e.g. "png", "jpeg").
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode decodes an image from r using the registered format decoders.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// ParseDataURL strips the "data:image/<type>;base64," prefix from s, if
// present, and returns the decoded bytes. A bare base64 payload without the
// prefix is accepted too.
func ParseDataURL(s string) ([]byte, error) {
	payload := dataURLPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, nil
}

// DecodeDataURL parses s with ParseDataURL and decodes the image it carries.
func DecodeDataURL(s string) (image.Image, string, error) {
	data, err := ParseDataURL(s)
	if err != nil {
		return nil, "", err
	}
	return Decode(bytes.NewReader(data))
}

// SaveUpload copies r into dir under the base name of name and returns the
// stored path. dir is created if it does not exist. Any directory part of
// name is discarded, so an upload cannot escape dir.
//
// An existing file with the same name is replaced, matching how repeated
// uploads of the same file behave in a browser form.
func SaveUpload(dir, name string, r io.Reader) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if name == "" || base == "/" || base == "." {
		return "", ErrNoFile
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(dir, base)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}
	return dst, nil
}

// SaveCapture stores raw capture bytes in dir as capture-<uuid>.<format>
// and returns the path. format should be the decoder name, e.g. "png".
func SaveCapture(dir string, data []byte, format string) (string, error) {
	if format == "" {
		format = "bin"
	}
	if format == "jpeg" {
		format = "jpg"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst := filepath.Join(dir, fmt.Sprintf("capture-%s.%s", uuid.NewString(), format))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write capture: %w", err)
	}
	return dst, nil
}
