package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// estimatorNames are the wire-format names accepted in
// disabled_estimators. Direct detection is the baseline signal and is
// not listed: it cannot be disabled, only unavailable.
var estimatorNames = []string{"density_regression", "face_demographic", "zero_shot_crop"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Analysis
		{
			Name:        "crowd_analyze",
			Description: "Analyze an image with every available estimator (object detection, crowd density, face demographics, zero-shot crop classification), fuse the counts, and return the full result: final person count with justification, per-category counts, demographic breakdown, bounding boxes, and density heatmap data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"disabled_estimators": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string", "enum": estimatorNames},
						"description": "Estimators to leave out of this run. Direct detection always runs when available.",
					},
					"show_categories": map[string]interface{}{
						"type":        "boolean",
						"description": "Include secondary category counts (dog, car, ...) from direct detection. Default true. Never affects the final count.",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "crowd_final_count",
			Description: "Analyze an image and return only the fused person count and its justification note.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"disabled_estimators": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string", "enum": estimatorNames},
						"description": "Estimators to leave out of this run.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "estimator_status",
			Description: "Report the load state of each estimator kind (not_loaded, loaded, load_failed). Estimators that failed to load are simply excluded from analysis runs.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent analysis calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
