package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Extraction
		{
			Name:        "label_extract",
			Description: "Extract manufacturing date, batch number, net weight and MRP from label text without saving anything. Unmatched fields are \"Not Found\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Raw OCR text of a product label",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "label_scan_text",
			Description: "Extract label fields from text and append them to the ledger. The result reports whether the row was persisted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Raw OCR text of a product label",
					},
				},
				"required": []string{"text"},
			},
		},

		// Image scans
		{
			Name:        "label_scan_image",
			Description: "Upload a label image file, run OCR on it, extract the label fields and append them to the ledger.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"include_words": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return every recognized word with its bounding box and confidence (default: false)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_scan_data_url",
			Description: "Decode a base64 image data URL (e.g. a webcam capture), run OCR on it, extract the label fields and append them to the ledger.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_data": map[string]interface{}{
						"type":        "string",
						"description": "data:image/<type>;base64,<payload> string",
					},
					"include_words": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return every recognized word with its bounding box and confidence (default: false)",
					},
				},
				"required": []string{"image_data"},
			},
		},

		// Ledger and diagnostics
		{
			Name:        "ledger_read",
			Description: "Return every record stored in the ledger, oldest first.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available and which version is installed.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
