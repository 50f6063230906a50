package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/label-ocr/internal/extract"
	"github.com/ironsheep/label-ocr/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "label_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A ledger write failure is not a tool error: the scan result carries
// persisted=false instead.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "label_extract":
		return s.handleLabelExtract(args)
	case "label_scan_text":
		return s.handleLabelScanText(args)
	case "label_scan_image":
		return s.handleLabelScanImage(args)
	case "label_scan_data_url":
		return s.handleLabelScanDataURL(args)
	case "ledger_read":
		return s.handleLedgerRead()
	case "ocr_info":
		return s.handleOCRInfo()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

type textArgs struct {
	Text *string `json:"text"`
}

func (a textArgs) value() (string, error) {
	if a.Text == nil {
		return "", errors.New("missing required argument: text")
	}
	return *a.Text, nil
}

func (s *Server) handleLabelExtract(args json.RawMessage) (interface{}, error) {
	var a textArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	text, err := a.value()
	if err != nil {
		return nil, err
	}
	return s.pipeline.ExtractText(text), nil
}

func (s *Server) handleLabelScanText(args json.RawMessage) (interface{}, error) {
	var a textArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	text, err := a.value()
	if err != nil {
		return nil, err
	}
	return s.pipeline.ScanText(text), nil
}

type scanImageArgs struct {
	Path         string `json:"path"`
	IncludeWords bool   `json:"include_words"`
}

// scanOutput drops the word boxes unless the caller asked for them.
func scanOutput(res *pipeline.Result, err error, includeWords bool) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if !includeWords {
		return res.WithoutWords(), nil
	}
	return res, nil
}

func (s *Server) handleLabelScanImage(args json.RawMessage) (interface{}, error) {
	var a scanImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("missing required argument: path")
	}
	res, err := s.pipeline.ScanFile(a.Path)
	return scanOutput(res, err, a.IncludeWords)
}

type scanDataURLArgs struct {
	ImageData    string `json:"image_data"`
	IncludeWords bool   `json:"include_words"`
}

func (s *Server) handleLabelScanDataURL(args json.RawMessage) (interface{}, error) {
	var a scanDataURLArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ImageData == "" {
		return nil, errors.New("missing required argument: image_data")
	}
	res, err := s.pipeline.ScanDataURL(a.ImageData)
	return scanOutput(res, err, a.IncludeWords)
}

// LedgerResult is the ledger_read tool output.
type LedgerResult struct {
	Path    string           `json:"path"`
	Header  []string         `json:"header"`
	Count   int              `json:"count"`
	Records []extract.Record `json:"records"`
}

func (s *Server) handleLedgerRead() (interface{}, error) {
	records, err := s.pipeline.Ledger()
	if err != nil {
		return nil, err
	}
	return &LedgerResult{
		Path:    s.pipeline.Config().LedgerPath,
		Header:  extract.Header,
		Count:   len(records),
		Records: records,
	}, nil
}

func (s *Server) handleOCRInfo() (interface{}, error) {
	if s.ocrInfo == nil {
		return nil, errors.New("OCR engine not configured")
	}
	return s.ocrInfo(), nil
}
