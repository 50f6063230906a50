// Package imaging handles the images that feed the OCR step.
//
// It covers three intake paths and one optional transformation:
//
//   - Load: decode an image file already on disk.
//   - SaveUpload: store an uploaded file under the upload directory so it
//     can be decoded and kept for later inspection.
//   - ParseDataURL / DecodeDataURL: decode a base64 "data:image/...;base64,"
//     string as produced by a browser canvas capture.
//   - Preprocess: grayscale, contrast, sharpen, upscale and dark-background
//     inversion to make small or low-contrast labels easier for Tesseract.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP, TIFF and WebP decoders are registered by this
// package. WebP is decode-only.
//
// # Error Handling
//
// Decoding failures belong to this package's boundary. They are returned as
// errors (wrapping ErrInvalidDataURL where the data URL itself is malformed)
// and the caller decides whether to skip OCR. Nothing here touches the
// ledger.
//
// # Thread Safety
//
// All functions are stateless. Preprocess never modifies its input and
// returns a new image.
package imaging
