package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/segment"
	"github.com/ironsheep/image-edit-mcp/internal/stats"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

const (
	defaultColorCount = 5
	defaultBorder     = 10
)

// ErrUnknownTool is returned for tool names that are not served.
var ErrUnknownTool = errors.New("unknown tool")

// customTools are operations whose tool has its own handler instead of the
// generic operation handler.
var customTools = map[string]struct{}{
	"otsu": {},
}

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_load", "raster_canny").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// IsInvalidInput reports whether err was caused by the caller's arguments
// rather than by a failure while executing the tool.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		raster.ErrInvalidDimensions,
		raster.ErrInvalidParameter,
		raster.ErrOutOfRange,
		raster.ErrDimensionMismatch,
		raster.ErrChannelMismatch,
		storage.ErrUnsupportedLocation,
		ErrPathNotAllowed,
		ErrUnknownTool,
		errInvalidArguments,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602 and other tool failures -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.ExecuteTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")
		if IsInvalidInput(err) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
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

// ExecuteTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads rasters through the cache
//  4. Runs the operation and encodes the result
func (s *Server) ExecuteTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	ctx = s.log.WithContext(ctx)

	switch name {
	case ToolPrefix + "load":
		return s.handleLoad(ctx, args)
	case ToolPrefix + "histogram":
		return s.handleHistogram(ctx, args)
	case ToolPrefix + "sample":
		return s.handleSample(ctx, args)
	case ToolPrefix + "dominant_colors":
		return s.handleDominantColors(ctx, args)
	case ToolPrefix + "crop":
		return s.handleCrop(ctx, args)
	case ToolPrefix + "otsu":
		return s.handleOtsu(ctx, args)
	case ToolPrefix + "combine":
		return s.handleCombine(ctx, args)
	case ToolPrefix + "compare":
		return s.handleCompare(ctx, args)
	}

	if op, ok := strings.CutPrefix(name, ToolPrefix); ok {
		if _, err := ops.Lookup(op); err == nil {
			return s.handleOperation(ctx, op, args)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageArgs are the arguments shared by every single-image tool.
type imageArgs struct {
	Path   string `json:"path"`
	Mode   string `json:"mode"`
	Output string `json:"output"`
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

func (s *Server) load(ctx context.Context, path, mode string) (*raster.Raster, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	path, err := s.localPath(path)
	if err != nil {
		return nil, err
	}
	m, err := imaging.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return s.cache.Load(ctx, path, m)
}

// encode renders r and saves it when output is set. A saved output is
// evicted so the next tool reading it sees the new pixels.
func (s *Server) encode(r *raster.Raster, output string) (*imaging.Result, error) {
	if output != "" {
		path, err := s.localPath(output)
		if err != nil {
			return nil, err
		}
		if err := imaging.Save(r, path); err != nil {
			return nil, err
		}
		s.cache.Evict(path)
	}
	res, err := imaging.Encode(r)
	if err != nil {
		return nil, err
	}
	res.SavedTo = output
	return res, nil
}

// === Image Information Handlers ===

func (s *Server) handleLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	path, err := s.localPath(a.Path)
	if err != nil {
		return nil, err
	}
	return s.cache.Info(ctx, path)
}

func (s *Server) handleHistogram(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	return stats.Summarize(r), nil
}

func (s *Server) handleSample(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		imageArgs
		Row int `json:"row"`
		Col int `json:"col"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(r, a.Row, a.Col)
}

func (s *Server) handleDominantColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		imageArgs
		Count int `json:"count"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = defaultColorCount
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	colors, err := imaging.DominantColors(r, a.Count)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"colors": colors}, nil
}

// === Raster Operation Handlers ===

// OperationResult is an encoded raster plus the operation that produced it.
type OperationResult struct {
	Operation string `json:"operation"`
	*imaging.Result
}

func (s *Server) handleOperation(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	var a struct {
		imageArgs
		ops.ParamArgs
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	out, err := ops.Run(ctx, name, r, a.ParamArgs.Resolve())
	if err != nil {
		return nil, err
	}
	res, err := s.encode(out, a.Output)
	if err != nil {
		return nil, err
	}
	return &OperationResult{Operation: name, Result: res}, nil
}

// CropResult is the encoded crop with its per-channel statistics.
type CropResult struct {
	*imaging.Result
	X1       int       `json:"x1"`
	Y1       int       `json:"y1"`
	X2       int       `json:"x2"`
	Y2       int       `json:"y2"`
	Mean     []float64 `json:"mean"`
	Variance []float64 `json:"variance"`
}

func (s *Server) handleCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		imageArgs
		X1     int    `json:"x1"`
		Y1     int    `json:"y1"`
		X2     int    `json:"x2"`
		Y2     int    `json:"y2"`
		Region string `json:"region"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	if a.Region != "" {
		a.X1, a.Y1, a.X2, a.Y2, err = transform.NamedRegion(a.Region, r.Width(), r.Height())
		if err != nil {
			return nil, err
		}
	}
	c, err := transform.CropRegion(r, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}
	res, err := s.encode(c.Raster, a.Output)
	if err != nil {
		return nil, err
	}
	return &CropResult{
		Result:   res,
		X1:       a.X1,
		Y1:       a.Y1,
		X2:       a.X2,
		Y2:       a.Y2,
		Mean:     c.Mean,
		Variance: c.Variance,
	}, nil
}

// OtsuResult is the segmented raster with the thresholds that produced it.
type OtsuResult struct {
	*imaging.Result
	segment.Thresholds
}

func (s *Server) handleOtsu(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, a.Path, a.Mode)
	if err != nil {
		return nil, err
	}
	out, t, err := segment.Otsu(r)
	if err != nil {
		return nil, err
	}
	res, err := s.encode(out, a.Output)
	if err != nil {
		return nil, err
	}
	return &OtsuResult{Result: res, Thresholds: t}, nil
}

// === Two Image Handlers ===

func (s *Server) handleCombine(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Left   string `json:"left"`
		Right  string `json:"right"`
		Mode   string `json:"mode"`
		Border *int   `json:"border"`
		Output string `json:"output"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	border := defaultBorder
	if a.Border != nil {
		border = *a.Border
	}
	left, err := s.load(ctx, a.Left, a.Mode)
	if err != nil {
		return nil, err
	}
	right, err := s.load(ctx, a.Right, a.Mode)
	if err != nil {
		return nil, err
	}
	out, err := transform.Combine(left, right, border)
	if err != nil {
		return nil, err
	}
	return s.encode(out, a.Output)
}

func (s *Server) handleCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a struct {
		Path1 string `json:"path1"`
		Path2 string `json:"path2"`
		Mode  string `json:"mode"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	first, err := s.load(ctx, a.Path1, a.Mode)
	if err != nil {
		return nil, err
	}
	second, err := s.load(ctx, a.Path2, a.Mode)
	if err != nil {
		return nil, err
	}
	return transform.Compare(first, second)
}
