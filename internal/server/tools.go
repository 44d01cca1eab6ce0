package server

import "github.com/ironsheep/image-vectorize/internal/vectorize"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// conversionProperties describes the options shared by the conversion tools.
// Omitted options keep the value advertised as default, or the preset value.
func conversionProperties(d vectorize.Config) map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"preset": map[string]interface{}{
			"type":        "string",
			"enum":        vectorize.Presets,
			"description": "Start from a named preset instead of the server defaults",
		},
		"colormode": map[string]interface{}{
			"default":     d.ColorMode.String(),
			"type":        "string",
			"enum":        []string{"color", "binary"},
			"description": "Trace colored layers or black shapes only",
		},
		"hierarchical": map[string]interface{}{
			"default":     d.Hierarchical.String(),
			"type":        "string",
			"enum":        []string{"stacked", "cutout"},
			"description": "Stack layers on top of each other or cut them into disjoint shapes",
		},
		"mode": map[string]interface{}{
			"default":     d.Mode.String(),
			"type":        "string",
			"enum":        []string{"pixel", "polygon", "spline"},
			"description": "Curve fitting mode",
		},
		"filter_speckle": map[string]interface{}{
			"default":     d.FilterSpeckle,
			"type":        "integer",
			"description": "Discard patches smaller than N x N pixels",
		},
		"color_precision": map[string]interface{}{
			"default":     d.ColorPrecision,
			"type":        "integer",
			"description": "Significant bits per RGB channel (1-8)",
		},
		"gradient_step": map[string]interface{}{
			"default":     d.LayerDifference,
			"type":        "integer",
			"description": "Color difference between gradient layers",
		},
		"corner_threshold": map[string]interface{}{
			"default":     d.CornerThreshold,
			"type":        "integer",
			"description": "Minimum momentary angle in degrees to be considered a corner",
		},
		"segment_length": map[string]interface{}{
			"default":     d.LengthThreshold,
			"type":        "number",
			"description": "Segment length threshold for subdivision (3.5-10)",
		},
		"max_iterations": map[string]interface{}{
			"default":     d.MaxIterations,
			"type":        "integer",
			"description": "Maximum number of smoothing iterations",
		},
		"splice_threshold": map[string]interface{}{
			"default":     d.SpliceThreshold,
			"type":        "integer",
			"description": "Minimum angle displacement in degrees to splice a spline",
		},
		"path_precision": map[string]interface{}{
			"default":     d.PathPrecision,
			"type":        "integer",
			"description": "Number of decimal places in path coordinates",
		},
	}
}

// GetToolDefinitions returns all available tools, advertising the built-in
// conversion defaults.
func GetToolDefinitions() []Tool {
	return toolDefinitions(vectorize.DefaultConfig())
}

func toolDefinitions(d vectorize.Config) []Tool {
	fileProps := conversionProperties(d)
	fileProps["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path of the SVG file to write",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent conversions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
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
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Conversion
		{
			Name:        "image_vectorize",
			Description: "Convert a raster image to SVG and return the document text, the number of paths and the fill palette ordered from dark to light.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": conversionProperties(d),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_vectorize_file",
			Description: "Convert a raster image to SVG and write it to the output path.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": fileProps,
				"required":   []string{"path", "output"},
			},
		},
	}
}

// handleToolsList returns the list of available tools with the server's
// conversion defaults.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": toolDefinitions(s.defaults),
		},
	}
}
