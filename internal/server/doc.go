// Package server implements the MCP (Model Context Protocol) server for
// rectangle extraction.
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
//   - extract_rect_coords: Ordered corner coordinates for one image
//   - extract_rect_coords_list: The same for several images, with per-file errors
//   - image_info: Dimensions and format from the image header
//   - annotate_rectangles: Overlay of the detected rectangles and their ids
//
// Images are read from the paths given in the arguments and must pass the
// configured format validation, exactly as HTTP uploads do.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses:
//   - -32602: missing or malformed arguments, unknown tool
//   - -32000: extraction failed; data carries {"kind", "error"} where kind is
//     one of unsupported_format, image_decode, invalid_geometry, internal
//
// # Usage
//
//	srv := server.New(extract.New(cfg), version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
