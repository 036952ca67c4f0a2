package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"extract_rect_coords",
		"extract_rect_coords_list",
		"image_info",
		"annotate_rectangles",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
			if _, ok := tool.InputSchema["required"].([]string); !ok {
				t.Error("'required' should be a string slice")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string]string{
		"extract_rect_coords":      "path",
		"extract_rect_coords_list": "paths",
		"image_info":               "path",
		"annotate_rectangles":      "path",
	}

	for _, tool := range GetToolDefinitions() {
		required := tool.InputSchema["required"].([]string)
		if len(required) != 1 || required[0] != want[tool.Name] {
			t.Errorf("%s: required %v, want [%s]", tool.Name, required, want[tool.Name])
		}
	}
}

func TestToolDefinitions_ExecutableNames(t *testing.T) {
	s := &Server{}
	for _, tool := range GetToolDefinitions() {
		// Every listed tool must be dispatched; empty arguments fail
		// validation, never with "unknown tool".
		_, err := s.executeTool(tool.Name, nil)
		if err != nil && err.Error() == "unknown tool: "+tool.Name {
			t.Errorf("%s is listed but not dispatched", tool.Name)
		}
	}
}
