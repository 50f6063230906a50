package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{
		"label_extract",
		"label_scan_text",
		"label_scan_image",
		"label_scan_data_url",
		"ledger_read",
		"ocr_info",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	seen := make(map[string]bool)
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d = %s, want %s", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s schema type = %v", tool.Name, tool.InputSchema["type"])
		}
	}
}

func TestToolDefinitions_RequiredArgs(t *testing.T) {
	required := map[string]string{
		"label_extract":       "text",
		"label_scan_text":     "text",
		"label_scan_image":    "path",
		"label_scan_data_url": "image_data",
	}

	for _, tool := range GetToolDefinitions() {
		arg, ok := required[tool.Name]
		if !ok {
			continue
		}
		req, _ := tool.InputSchema["required"].([]string)
		if len(req) != 1 || req[0] != arg {
			t.Errorf("%s required = %v, want [%s]", tool.Name, req, arg)
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		if _, ok := props[arg]; !ok {
			t.Errorf("%s has no %s property", tool.Name, arg)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("tools/list returned %d tools", len(decoded.Result.Tools))
	}
}
