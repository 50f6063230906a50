// Package server implements the MCP (Model Context Protocol) server for
// product-label scanning.
//
// This package provides a JSON-RPC 2.0 server that exposes the label
// pipeline through the MCP protocol, so an MCP client can submit label text
// or images and read back the extracted fields and the ledger.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Extraction:
//   - label_extract: Parse label text, nothing is saved
//   - label_scan_text: Parse label text and append to the ledger
//
// Image scans:
//   - label_scan_image: Upload an image file, OCR, parse, append
//   - label_scan_data_url: Decode a base64 capture, OCR, parse, append
//
// Both image tools accept include_words=true to also return each
// recognized word with its bounding box and confidence.
//
// Ledger and diagnostics:
//   - ledger_read: List stored records
//   - ocr_info: Tesseract availability and version
//
// # Error Handling
//
// Tool execution errors (bad arguments, unreadable images, OCR failures)
// are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Ledger write failures are not errors at this level. Scan tools still
// return the extracted record with "persisted": false and a
// "persist_error" message.
package server
