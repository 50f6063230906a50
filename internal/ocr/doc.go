// Package ocr converts label images to plain text using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). It is the
// OCR collaborator of the label pipeline: it knows nothing about label
// fields, it only returns the recognized text and, where Tesseract provides
// them, word bounding boxes.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A custom tessdata directory can be selected with Tesseract.TessdataPrefix.
//
// # Temporary Files
//
// Recognize writes the in-memory image to a temporary PNG because gosseract
// reads images from file paths. The file is removed after OCR completes.
//
// # Error Handling
//
// Functions return errors for missing or unreadable images, unsupported
// language codes and Tesseract initialization failures. If word bounding
// boxes cannot be read, the full text is still returned with an empty
// Words slice.
package ocr
