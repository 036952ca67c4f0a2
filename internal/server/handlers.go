package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/rect-coords/internal/extract"
	"github.com/ironsheep/rect-coords/internal/imaging"
)

// JSON-RPC error codes used by tools/call.
const (
	codeInvalidParams = -32602
	codeToolFailed    = -32000
)

// argError marks a failure caused by the caller's arguments rather than by
// processing the image.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }

func argErrorf(format string, args ...interface{}) error {
	return &argError{msg: fmt.Sprintf(format, args...)}
}

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "extract_rect_coords").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolErrorData is the data member of a tool failure response.
type toolErrorData struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad or missing arguments return code -32602. Extraction failures return
// code -32000 with the error kind (see extract.Kind) in data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var ae *argError
		if errors.As(err, &ae) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		log.Printf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", toolErrorData{
			Kind:  extract.Kind(err),
			Error: err.Error(),
		})
	}

	return s.result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "extract_rect_coords":
		return s.handleExtractRectCoords(args)
	case "extract_rect_coords_list":
		return s.handleExtractRectCoordsList(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "annotate_rectangles":
		return s.handleAnnotateRectangles(args)
	default:
		return nil, argErrorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, reporting malformed JSON as an
// argument error.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return argErrorf("invalid arguments: %v", err)
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a pathArgs) validate() error {
	if a.Path == "" {
		return argErrorf("path is required")
	}
	return nil
}

func (s *Server) handleExtractRectCoords(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return s.extractor.ExtractFile(a.Path)
}

type pathListArgs struct {
	Paths []string `json:"paths"`
}

func (s *Server) handleExtractRectCoordsList(args json.RawMessage) (interface{}, error) {
	var a pathListArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, argErrorf("paths must contain at least one file")
	}
	return s.extractor.ExtractFiles(context.Background(), a.Paths), nil
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

type annotateArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

// annotateResponse is the annotate_rectangles result: the overlay plus the
// rectangles drawn on it.
type annotateResponse struct {
	*imaging.AnnotateResult
	Rectangles []extract.IdentifiedRectangle `json:"rectangles"`
}

func (s *Server) handleAnnotateRectangles(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := (pathArgs{Path: a.Path}).validate(); err != nil {
		return nil, err
	}

	img, rects, err := s.extractor.AnnotateFile(a.Path)
	if err != nil {
		return nil, err
	}

	var result *imaging.AnnotateResult
	if a.OutputPath != "" {
		result, err = imaging.SaveAnnotation(img, len(rects), a.OutputPath)
	} else {
		result, err = imaging.EncodeAnnotation(img, len(rects))
	}
	if err != nil {
		return nil, err
	}
	return annotateResponse{AnnotateResult: result, Rectangles: rects}, nil
}
