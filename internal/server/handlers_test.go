package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/image-vectorize/internal/trace"
	"github.com/ironsheep/image-vectorize/internal/vectorize"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// createBandsImageFile creates an image with a red top half and a blue
// bottom half.
func createBandsImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if y < height/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return writePNG(t, img)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode result %q: %v", text, err)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	decodeResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	for _, tool := range []string{"image_load", "image_vectorize"} {
		resp := callTool(t, s, tool, map[string]interface{}{"path": "/nonexistent/image.png"})
		if resp.Error == nil {
			t.Fatalf("%s: expected error for non-existent file", tool)
		}
		if resp.Error.Code != -32000 {
			t.Errorf("%s: error code: got %d, want -32000", tool, resp.Error.Code)
		}
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("error data: got %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_Vectorize(t *testing.T) {
	s := New()
	imgPath := createBandsImageFile(t, 8, 8)

	var result VectorizeResult
	decodeResult(t, callTool(t, s, "image_vectorize", map[string]interface{}{
		"path":           imgPath,
		"filter_speckle": 1,
		"mode":           "polygon",
	}), &result)

	if result.Width != 8 || result.Height != 8 {
		t.Errorf("canvas: got %dx%d, want 8x8", result.Width, result.Height)
	}
	if result.PathCount != 2 {
		t.Errorf("path count: got %d, want 2", result.PathCount)
	}
	if diff := cmp.Diff([]string{"#0000ff", "#ff0000"}, result.Palette); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(result.SVG, "<?xml") || !strings.Contains(result.SVG, `width="8" height="8"`) {
		t.Errorf("unexpected SVG:\n%s", result.SVG)
	}
	if s.cache.Len() != 1 {
		t.Errorf("image should be cached, cache has %d entries", s.cache.Len())
	}
}

func TestHandleToolsCall_VectorizePreset(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 6, 6, color.RGBA{0, 0, 0, 255})

	var result VectorizeResult
	decodeResult(t, callTool(t, s, "image_vectorize", map[string]interface{}{
		"path":   imgPath,
		"preset": "bw",
	}), &result)

	if result.PathCount != 1 {
		t.Errorf("path count: got %d, want 1", result.PathCount)
	}
	if diff := cmp.Diff([]string{"#000000"}, result.Palette); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleToolsCall_VectorizeInvalidOption(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{0, 0, 0, 255})

	tests := []map[string]interface{}{
		{"path": imgPath, "colormode": "sepia"},
		{"path": imgPath, "hierarchical": "nested"},
		{"path": imgPath, "mode": "bezier"},
		{"path": imgPath, "preset": "sketch"},
	}
	for _, args := range tests {
		if resp := callTool(t, s, "image_vectorize", args); resp.Error == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestHandleToolsCall_VectorizeFile(t *testing.T) {
	s := New()
	imgPath := createBandsImageFile(t, 8, 8)
	output := filepath.Join(t.TempDir(), "out.svg")

	var result VectorizeFileResult
	decodeResult(t, callTool(t, s, "image_vectorize_file", map[string]interface{}{
		"path":         imgPath,
		"output":       output,
		"hierarchical": "cutout",
	}), &result)

	if result.Output != output {
		t.Errorf("output: got %s, want %s", result.Output, output)
	}
	if result.Status != "Conversion successful." {
		t.Errorf("status: got %q", result.Status)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output is not an SVG document:\n%s", data)
	}
}

func TestHandleToolsCall_VectorizeFileErrors(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{0, 0, 0, 255})

	if resp := callTool(t, s, "image_vectorize_file", map[string]interface{}{"path": imgPath}); resp.Error == nil {
		t.Error("expected error when output is missing")
	}

	resp := callTool(t, s, "image_vectorize_file", map[string]interface{}{
		"path":   imgPath,
		"output": filepath.Join(t.TempDir(), "missing", "out.svg"),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unwritable output")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, vectorize.ErrOutputNotWritable.Error()) {
		t.Errorf("error data: got %v", resp.Error.Data)
	}
}

func TestVectorizeArgs_Config(t *testing.T) {
	zero := 0
	length := 5.5
	speckle := 2
	a := vectorizeArgs{
		Path:          "in.png",
		Output:        "out.svg",
		Hierarchical:  "cutout",
		Mode:          "polygon",
		GradientStep:  &zero,
		SegmentLength: &length,
		FilterSpeckle: &speckle,
	}

	got, err := a.config(vectorize.DefaultConfig())
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}

	want := vectorize.DefaultConfig()
	want.InputPath = "in.png"
	want.OutputPath = "out.svg"
	want.Hierarchical = vectorize.Cutout
	want.Mode = trace.ModePolygon
	want.LayerDifference = 0
	want.LengthThreshold = 5.5
	want.FilterSpeckle = 2
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNewWithConfig_Defaults(t *testing.T) {
	base := vectorize.DefaultConfig()
	base.ColorMode = vectorize.Binary
	s := NewWithConfig(base)

	imgPath := createTestImageFile(t, 4, 4, color.RGBA{255, 255, 255, 255})
	var result VectorizeResult
	decodeResult(t, callTool(t, s, "image_vectorize", map[string]interface{}{"path": imgPath}), &result)

	// A white image has no foreground in binary mode.
	if result.PathCount != 0 {
		t.Errorf("path count: got %d, want 0", result.PathCount)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 20, 20, color.RGBA{128, 128, 128, 255})
	output := filepath.Join(t.TempDir(), "all.svg")

	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_dimensions", map[string]interface{}{"path": imgPath}},
		{"image_vectorize", map[string]interface{}{"path": imgPath}},
		{"image_vectorize_file", map[string]interface{}{"path": imgPath, "output": output}},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	for _, tool := range []string{"image_load", "image_vectorize", "image_vectorize_file"} {
		if _, err := s.executeTool(tool, json.RawMessage(`{invalid`)); err == nil {
			t.Errorf("executeTool(%s) should fail for invalid JSON", tool)
		}
	}
}
