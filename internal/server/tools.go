package server

import "github.com/ironsheep/image-edit-mcp/internal/ops"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolPrefix is prepended to every operation name to form its tool name.
const ToolPrefix = "raster_"

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values ...string) map[string]interface{} {
	p := prop("string", description)
	p["enum"] = values
	return p
}

func intProp(description string, def int) map[string]interface{} {
	p := prop("integer", description)
	p["default"] = def
	return p
}

// imageProps are the arguments every raster tool accepts.
func imageProps() map[string]interface{} {
	return map[string]interface{}{
		"path": prop("string", "Image location: absolute file path, http(s):// URL or azblob://container/blob"),
		"mode": enumProp("Load as gray or color. Defaults to gray for gray files and color otherwise", "gray", "color"),
	}
}

func outputProps() map[string]interface{} {
	p := imageProps()
	p["output"] = prop("string", "Optional file path to save the result to; the format follows the extension")
	return p
}

func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// operationProps lists the parameters each registered operation reads.
var operationProps = map[string]func(p map[string]interface{}){
	"threshold": func(p map[string]interface{}) {
		p["value"] = intProp("Samples >= value become 255, the rest 0", ops.DefaultParams().Value)
	},
	"rotate": func(p map[string]interface{}) {
		p["rotation"] = enumProp("Quarter turn direction (default: clockwise)", "clockwise", "anticlockwise")
	},
	"pad": func(p map[string]interface{}) {
		p["kernel"] = intProp("Kernel size; the border is (kernel-1)/2", ops.DefaultParams().Kernel)
	},
	"median": func(p map[string]interface{}) {
		p["kernel"] = intProp("Odd kernel size", ops.DefaultParams().Kernel)
	},
	"sobel":      thresholdProp,
	"angle":      thresholdProp,
	"nonmaxima":  thresholdProp,
	"hysteresis": hysteresisProps,
	"canny":      hysteresisProps,
}

func thresholdProp(p map[string]interface{}) {
	p["threshold"] = intProp("Gradient magnitudes at or below this are treated as zero", ops.DefaultParams().Threshold)
}

func hysteresisProps(p map[string]interface{}) {
	thresholdProp(p)
	p["t1"] = intProp("Low hysteresis threshold", ops.DefaultParams().T1)
	p["t2"] = intProp("High hysteresis threshold", ops.DefaultParams().T2)
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	tools := []Tool{
		{
			Name:        ToolPrefix + "load",
			Description: "Load an image into the cache and return its dimensions, format and whether it is stored as gray.",
			InputSchema: schema(map[string]interface{}{
				"path": prop("string", "Image location: absolute file path, http(s):// URL or azblob://container/blob"),
			}, "path"),
		},
		{
			Name:        ToolPrefix + "histogram",
			Description: "Return the 256-bin histogram, mean, variance, min and max of every channel.",
			InputSchema: schema(imageProps(), "path"),
		},
		{
			Name:        ToolPrefix + "sample",
			Description: "Read the pixel at (row, col) and return its value, hex color and HSL.",
			InputSchema: schema(withProps(imageProps(), map[string]interface{}{
				"row": prop("integer", "Row (0-based)"),
				"col": prop("integer", "Column (0-based)"),
			}), "path", "row", "col"),
		},
		{
			Name:        ToolPrefix + "dominant_colors",
			Description: "Return the most frequent colors after quantizing each component to a multiple of 16.",
			InputSchema: schema(withProps(imageProps(), map[string]interface{}{
				"count": intProp("Number of colors to return", defaultColorCount),
			}), "path"),
		},
		{
			Name:        ToolPrefix + "crop",
			Description: "Crop a rectangle given by corners (x1, y1) inclusive and (x2, y2) exclusive, or by a region name, and report the mean and variance of the crop.",
			InputSchema: schema(withProps(outputProps(), map[string]interface{}{
				"x1":     prop("integer", "Left edge X coordinate (0-based)"),
				"y1":     prop("integer", "Top edge Y coordinate (0-based)"),
				"x2":     prop("integer", "Right edge X coordinate (exclusive)"),
				"y2":     prop("integer", "Bottom edge Y coordinate (exclusive)"),
				"region": enumProp("Named region used instead of coordinates", regionNames...),
			}), "path"),
		},
		{
			Name:        ToolPrefix + "otsu",
			Description: "Three class Otsu segmentation of a gray raster. Returns the segmented raster and the thresholds t1 and t2.",
			InputSchema: schema(outputProps(), "path"),
		},
		{
			Name:        ToolPrefix + "combine",
			Description: "Place two images side by side with a black border between them. Gray inputs are promoted to color; the smaller image is centered.",
			InputSchema: schema(map[string]interface{}{
				"left":   prop("string", "Location of the left image"),
				"right":  prop("string", "Location of the right image"),
				"mode":   enumProp("Load both images as gray or color", "gray", "color"),
				"border": intProp("Border width in pixels", defaultBorder),
				"output": prop("string", "Optional file path to save the result to"),
			}, "left", "right"),
		},
		{
			Name:        ToolPrefix + "compare",
			Description: "Compare two equally sized images pixel by pixel and return similarity statistics.",
			InputSchema: schema(map[string]interface{}{
				"path1": prop("string", "Location of the first image"),
				"path2": prop("string", "Location of the second image"),
				"mode":  enumProp("Load both images as gray or color", "gray", "color"),
			}, "path1", "path2"),
		},
	}

	for _, name := range ops.Names() {
		if _, ok := customTools[name]; ok {
			continue
		}
		op, _ := ops.Lookup(name)
		props := outputProps()
		if add, ok := operationProps[name]; ok {
			add(props)
		}
		tools = append(tools, Tool{
			Name:        ToolPrefix + name,
			Description: op.Description + ". Returns the result as base64-encoded PNG.",
			InputSchema: schema(props, "path"),
		})
	}
	return tools
}

func withProps(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

var regionNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
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
