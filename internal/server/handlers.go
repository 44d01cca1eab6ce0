package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-vectorize/internal/imaging"
	"github.com/ironsheep/image-vectorize/internal/trace"
	"github.com/ironsheep/image-vectorize/internal/vectorize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_vectorize").
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
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Conversion
	case "image_vectorize":
		return s.handleImageVectorize(args)
	case "image_vectorize_file":
		return s.handleImageVectorizeFile(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Conversion Handlers ===

// vectorizeArgs holds the conversion options of a tool call. Nil and empty
// fields keep the base setting.
type vectorizeArgs struct {
	Path            string   `json:"path"`
	Output          string   `json:"output"`
	Preset          string   `json:"preset"`
	ColorMode       string   `json:"colormode"`
	Hierarchical    string   `json:"hierarchical"`
	Mode            string   `json:"mode"`
	FilterSpeckle   *int     `json:"filter_speckle"`
	ColorPrecision  *int     `json:"color_precision"`
	GradientStep    *int     `json:"gradient_step"`
	CornerThreshold *int     `json:"corner_threshold"`
	SegmentLength   *float64 `json:"segment_length"`
	MaxIterations   *int     `json:"max_iterations"`
	SpliceThreshold *int     `json:"splice_threshold"`
	PathPrecision   *int     `json:"path_precision"`
}

// config builds the conversion settings for a call on top of base.
func (a *vectorizeArgs) config(base vectorize.Config) (vectorize.Config, error) {
	cfg := base
	if a.Preset != "" {
		p, err := vectorize.Preset(a.Preset)
		if err != nil {
			return cfg, err
		}
		cfg = p
	}
	cfg.InputPath = a.Path
	cfg.OutputPath = a.Output

	var err error
	if a.ColorMode != "" {
		if cfg.ColorMode, err = vectorize.ParseColorMode(a.ColorMode); err != nil {
			return cfg, err
		}
	}
	if a.Hierarchical != "" {
		if cfg.Hierarchical, err = vectorize.ParseHierarchical(a.Hierarchical); err != nil {
			return cfg, err
		}
	}
	if a.Mode != "" {
		if cfg.Mode, err = trace.ParseMode(a.Mode); err != nil {
			return cfg, err
		}
	}

	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&cfg.FilterSpeckle, a.FilterSpeckle)
	setInt(&cfg.ColorPrecision, a.ColorPrecision)
	setInt(&cfg.LayerDifference, a.GradientStep)
	setInt(&cfg.CornerThreshold, a.CornerThreshold)
	setInt(&cfg.MaxIterations, a.MaxIterations)
	setInt(&cfg.SpliceThreshold, a.SpliceThreshold)
	setInt(&cfg.PathPrecision, a.PathPrecision)
	if a.SegmentLength != nil {
		cfg.LengthThreshold = *a.SegmentLength
	}
	return cfg, nil
}

// VectorizeResult is returned by image_vectorize.
type VectorizeResult struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	PathCount int      `json:"path_count"`
	Palette   []string `json:"palette"` // distinct fills, darkest first
	SVG       string   `json:"svg"`
}

// VectorizeFileResult is returned by image_vectorize_file.
type VectorizeFileResult struct {
	Output string `json:"output"`
	Status string `json:"status"`
}

func (s *Server) handleImageVectorize(args json.RawMessage) (interface{}, error) {
	var a vectorizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config(s.defaults)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vectorize.ErrInputUnreadable, err)
	}
	doc, err := vectorize.ConvertDocument(cfg, img)
	if err != nil {
		return nil, err
	}

	seen := make(map[imaging.Color]bool)
	var fills []imaging.Color
	for _, p := range doc.Paths() {
		c := p.Fill
		c.A = 255
		if !seen[c] {
			seen[c] = true
			fills = append(fills, c)
		}
	}
	imaging.SortByBrightness(fills)
	palette := make([]string, len(fills))
	for i, c := range fills {
		palette[i] = c.Hex()
	}

	return &VectorizeResult{
		Width:     doc.Width,
		Height:    doc.Height,
		PathCount: doc.Len(),
		Palette:   palette,
		SVG:       doc.String(),
	}, nil
}

func (s *Server) handleImageVectorizeFile(args json.RawMessage) (interface{}, error) {
	var a vectorizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, errors.New("output path is required")
	}
	cfg, err := a.config(s.defaults)
	if err != nil {
		return nil, err
	}

	if err := vectorize.ConvertWithLoader(cfg, s.cache); err != nil {
		return nil, err
	}
	return &VectorizeFileResult{Output: a.Output, Status: "Conversion successful."}, nil
}
