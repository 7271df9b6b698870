package server

import "testing"

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expected := []string{
		"crowd_analyze",
		"crowd_final_count",
		"estimator_status",
		"image_load",
		"image_dimensions",
	}
	if len(tools) != len(expected) {
		t.Fatalf("tool count: got %d, want %d", len(tools), len(expected))
	}

	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	for _, name := range expected {
		tool, ok := byName[name]
		if !ok {
			t.Errorf("tool %s missing from catalog", name)
			continue
		}
		if tool.Description == "" {
			t.Errorf("tool %s has no description", name)
		}
		if tool.InputSchema == nil {
			t.Errorf("tool %s has no input schema", name)
		}
	}
}

func TestGetToolDefinitions_RequiredFields(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "estimator_status" {
			continue // takes no arguments
		}
		required, ok := tool.InputSchema["required"].([]string)
		if !ok || len(required) == 0 {
			t.Errorf("tool %s: missing required fields", tool.Name)
			continue
		}
		if required[0] != "path" {
			t.Errorf("tool %s: path should be required, got %v", tool.Name, required)
		}
	}
}
