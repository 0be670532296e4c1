package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_partition",
		"image_grayscale",
		"image_benchmark",
		"image_sample_color",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	// Check all expected tools exist
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			// Name should not be empty
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}

			// Description should not be empty
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}

			// InputSchema should exist
			if tool.InputSchema == nil {
				t.Error("Tool InputSchema is nil")
			}

			// InputSchema should be an object type
			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			// InputSchema should have properties
			props, ok := tool.InputSchema["properties"]
			if !ok {
				t.Error("InputSchema missing 'properties' field")
			}
			if props == nil {
				t.Error("InputSchema properties is nil")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	// Every tool except image_partition reads an image file
	toolsRequiringPath := []string{
		"image_load",
		"image_grayscale",
		"image_benchmark",
		"image_sample_color",
	}

	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range toolsRequiringPath {
		tool, ok := toolMap[name]
		if !ok {
			continue // Skip if tool not found
		}

		t.Run(name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"]
			if !ok {
				t.Error("InputSchema missing 'required' field")
				return
			}

			requiredList, ok := required.([]string)
			if !ok {
				t.Error("'required' should be a string slice")
				return
			}

			hasPath := false
			for _, r := range requiredList {
				if r == "path" {
					hasPath = true
					break
				}
			}

			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_GrayscaleRequired(t *testing.T) {
	tool := findTool(t, "image_grayscale")

	required, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatal("required should be a string slice")
	}

	expectedRequired := map[string]bool{
		"path":   true,
		"output": true,
	}
	for _, r := range required {
		delete(expectedRequired, r)
	}
	for missing := range expectedRequired {
		t.Errorf("image_grayscale should require '%s' parameter", missing)
	}
}

func TestToolDefinitions_GridProperties(t *testing.T) {
	for _, name := range []string{"image_partition", "image_grayscale", "image_benchmark"} {
		t.Run(name, func(t *testing.T) {
			tool := findTool(t, name)
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}
			for _, p := range []string{"processes", "threads", "repeats", "policy"} {
				if _, ok := props[p]; !ok {
					t.Errorf("missing grid property %q", p)
				}
			}

			policy := props["policy"].(map[string]interface{})
			enum, ok := policy["enum"].([]string)
			if !ok || len(enum) != 2 || enum[0] != "last" || enum[1] != "balanced" {
				t.Errorf("policy enum: got %v", policy["enum"])
			}
			if policy["default"] != "last" {
				t.Errorf("policy default: got %v, want last", policy["default"])
			}
		})
	}
}

func TestToolDefinitions_ModeEnum(t *testing.T) {
	tool := findTool(t, "image_grayscale")
	props := tool.InputSchema["properties"].(map[string]interface{})
	mode, ok := props["mode"].(map[string]interface{})
	if !ok {
		t.Fatal("mode property should exist and be a map")
	}

	enum, ok := mode["enum"].([]string)
	if !ok {
		t.Fatal("mode should have enum")
	}
	want := map[string]bool{"parallel": true, "sequential": true, "line": true}
	for _, e := range enum {
		if !want[e] {
			t.Errorf("unexpected mode %q in enum", e)
		}
		delete(want, e)
	}
	for m := range want {
		t.Errorf("Expected mode '%s' not in enum", m)
	}
	if mode["default"] != "parallel" {
		t.Errorf("mode default: got %v, want parallel", mode["default"])
	}
}

// findTool returns the named tool definition or fails the test.
func findTool(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("%s tool not found", name)
	return Tool{}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	tools, ok := result["tools"]
	if !ok {
		t.Fatal("Result should contain 'tools' key")
	}

	toolsList, ok := tools.([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	// Should match GetToolDefinitions
	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"param1": map[string]interface{}{
					"type":        "string",
					"description": "A test parameter",
				},
			},
			"required": []string{"param1"},
		},
	}

	if tool.Name != "test_tool" {
		t.Errorf("Name: got %s, want test_tool", tool.Name)
	}
	if tool.Description != "A test tool" {
		t.Errorf("Description: got %s, want 'A test tool'", tool.Description)
	}
	if tool.InputSchema == nil {
		t.Error("InputSchema should not be nil")
	}
}
