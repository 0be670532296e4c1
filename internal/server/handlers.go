package server

import (
	"encoding/json"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-gray-bench/internal/config"
	"github.com/ironsheep/image-gray-bench/internal/engine"
	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_grayscale").
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

	s.logger.Printf("[DEBUG] tools/call %s", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Printf("[DEBUG] %s failed: %v", params.Name, err)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted settings from the server configuration
//  3. Loads a private copy of the input buffer from the cache
//  4. Calls the raster or engine function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_partition":
		return s.handleImagePartition(args)
	case "image_grayscale":
		return s.handleImageGrayscale(args)
	case "image_benchmark":
		return s.handleImageBenchmark(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// gridArgs are the optional engine settings accepted by several tools.
// Zero values mean "use the server configuration".
type gridArgs struct {
	Processes int    `json:"processes"`
	Threads   int    `json:"threads"`
	Repeats   int    `json:"repeats"`
	Policy    string `json:"policy"`
}

func (s *Server) resolveConfig(a gridArgs) (config.Config, error) {
	cfg := s.cfg
	if a.Processes != 0 {
		cfg.Processes = a.Processes
	}
	if a.Threads != 0 {
		cfg.ThreadsPerProcess = a.Threads
	}
	if a.Repeats != 0 {
		cfg.Repeats = a.Repeats
	}
	if a.Policy != "" {
		cfg.Policy = engine.Policy(a.Policy)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadImageInfo(s.cache, a.Path)
}

// === Partitioning ===

type imagePartitionArgs struct {
	Height int `json:"height"`
	gridArgs
}

type partitionResult struct {
	Height  int                   `json:"height"`
	Policy  engine.Policy         `json:"policy"`
	Workers []engine.WorkerReport `json:"workers"`
}

func (s *Server) handleImagePartition(args json.RawMessage) (interface{}, error) {
	var a imagePartitionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.resolveConfig(a.gridArgs)
	if err != nil {
		return nil, err
	}

	ranges, err := cfg.Policy.Partition(a.Height, cfg.WorkerCount())
	if err != nil {
		return nil, err
	}
	opts := cfg.EngineOptions()
	res := &partitionResult{
		Height:  a.Height,
		Policy:  cfg.Policy,
		Workers: make([]engine.WorkerReport, len(ranges)),
	}
	for i, r := range ranges {
		p, t := opts.Grid(i)
		res.Workers[i] = engine.WorkerReport{ID: i, Process: p, Thread: t, Rows: r}
	}
	return res, nil
}

// === Grayscale Conversion ===

type imageGrayscaleArgs struct {
	Path    string `json:"path"`
	Output  string `json:"output"`
	Mode    string `json:"mode"`
	Quality int    `json:"quality"`
	gridArgs
}

type grayscaleResult struct {
	Input      string         `json:"input"`
	Output     string         `json:"output"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Components int            `json:"components"`
	Report     *engine.Report `json:"report"`
}

func (s *Server) handleImageGrayscale(args json.RawMessage) (interface{}, error) {
	var a imageGrayscaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	cfg, err := s.resolveConfig(a.gridArgs)
	if err != nil {
		return nil, err
	}
	if a.Quality == 0 {
		a.Quality = cfg.JPEGQuality
	}
	mode, err := engine.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	report, err := s.engine.Process(buf, mode, cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	if err := raster.Encode(buf, a.Output, imaging.JPEGQuality(a.Quality)); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Output)

	return &grayscaleResult{
		Input:      a.Path,
		Output:     a.Output,
		Width:      buf.Width,
		Height:     buf.Height,
		Components: buf.Components,
		Report:     report,
	}, nil
}

// === Benchmark ===

type imageBenchmarkArgs struct {
	Path  string   `json:"path"`
	Modes []string `json:"modes"`
	gridArgs
}

func (s *Server) handleImageBenchmark(args json.RawMessage) (interface{}, error) {
	var a imageBenchmarkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.resolveConfig(a.gridArgs)
	if err != nil {
		return nil, err
	}

	modes := make([]engine.Mode, 0, len(a.Modes))
	for _, m := range a.Modes {
		mode, err := engine.ParseMode(m)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	report, _, err := s.engine.Bench(buf, cfg.EngineOptions(), modes...)
	return report, err
}

// === Color Sampling ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return raster.SampleColor(buf, a.X, a.Y)
}
