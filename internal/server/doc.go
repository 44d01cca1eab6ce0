// Package server exposes the vectorizer as an MCP (Model Context Protocol) server.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_vectorize: Convert an image and return the SVG text
//   - image_vectorize_file: Convert an image and write the SVG to a file
//
// Conversion tools start from the server's default settings (or a named
// preset) and apply any option given in the call.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls. The
// segmentation engine only reads the rasters it is given, so cached images
// can be converted repeatedly.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    logging.Logger.Fatal("server error", zap.Error(err))
//	}
package server
