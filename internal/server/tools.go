package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// gridProperties are the engine settings shared by image_grayscale and
// image_benchmark. Omitted values fall back to the server configuration.
func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"processes": map[string]interface{}{
			"type":        "integer",
			"description": "Rows of the worker grid. Workers = processes * threads. Default from IMAGE_GRAY_PROCESSES (4)",
		},
		"threads": map[string]interface{}{
			"type":        "integer",
			"description": "Workers per process. Default from IMAGE_GRAY_THREADS (4)",
		},
		"repeats": map[string]interface{}{
			"type":        "integer",
			"description": "Grayscale passes per worker. The output does not depend on it. Default from IMAGE_GRAY_REPEATS (10000)",
		},
		"policy": map[string]interface{}{
			"type":        "string",
			"description": "Remainder row assignment: 'last' gives leftover rows to the last worker, 'balanced' spreads them",
			"enum":        []string{"last", "balanced"},
			"default":     "last",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Decode an image file and return its dimensions, component count and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_partition",
			Description: "Show the row range each worker would be given for an image of the given height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height in rows",
					},
				}, gridProperties()),
				"required": []string{"height"},
			},
		},
		{
			Name:        "image_grayscale",
			Description: "Convert an image to grayscale with the parallel worker grid and write the result. Use a .rgbz output path for a lossless snapshot.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"path":   pathProperty("Absolute path to the input image"),
					"output": pathProperty("Absolute path for the output image; the extension selects the format"),
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Scheduling mode",
						"enum":        []string{"parallel", "sequential", "line"},
						"default":     "parallel",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100 when the output is a JPEG",
					},
				}, gridProperties()),
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "image_benchmark",
			Description: "Run the sequential, parallel and line modes on the same image, report timings and check that all outputs are identical.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"path": pathProperty("Absolute path to the input image"),
					"modes": map[string]interface{}{
						"type":        "array",
						"description": "Modes to run, in order. Default: sequential, parallel, line",
						"items": map[string]interface{}{
							"type": "string",
							"enum": []string{"parallel", "sequential", "line"},
						},
					},
				}, gridProperties()),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of a single pixel in hex, RGB and HSL, and whether it is gray.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
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
