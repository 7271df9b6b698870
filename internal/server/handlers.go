package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/fusion"
	"github.com/ironsheep/crowd-lens-mcp/internal/imaging"
	"github.com/ironsheep/crowd-lens-mcp/internal/project"
	"github.com/ironsheep/crowd-lens-mcp/internal/registry"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "crowd_analyze").
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
	// Analysis
	case "crowd_analyze":
		return s.handleCrowdAnalyze(args)
	case "crowd_final_count":
		return s.handleCrowdFinalCount(args)
	case "estimator_status":
		return s.handleEstimatorStatus(args)

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

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

// === Analysis Handlers ===

type crowdAnalyzeArgs struct {
	Path               string   `json:"path"`
	DisabledEstimators []string `json:"disabled_estimators,omitempty"`

	// ShowCategories controls whether direct detection's secondary
	// category counts appear in the result. Defaults to true; it never
	// affects the final count.
	ShowCategories *bool `json:"show_categories,omitempty"`
}

// analyze runs the pipeline for one image: load, dispatch estimators,
// fuse. The fusion result is produced even when every estimator failed.
func (s *Server) analyze(a crowdAnalyzeArgs) (*registry.Run, *fusion.Result, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	disabled := make([]estimate.Kind, 0, len(a.DisabledEstimators))
	for _, name := range a.DisabledEstimators {
		kind, err := kindFromName(name)
		if err != nil {
			return nil, nil, err
		}
		disabled = append(disabled, kind)
	}

	run := s.registry.Analyze(context.Background(), img, registry.Options{Disabled: disabled})
	if run.Superseded {
		return nil, nil, fmt.Errorf("analysis %s superseded by a newer run", run.ID)
	}
	return run, fusion.Fuse(run.Estimates), nil
}

func (s *Server) handleCrowdAnalyze(args json.RawMessage) (interface{}, error) {
	var a crowdAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	run, fused, err := s.analyze(a)
	if err != nil {
		return nil, err
	}

	showCategories := a.ShowCategories == nil || *a.ShowCategories
	return project.Render(run, fused, showCategories), nil
}

type finalCountResult struct {
	RunID      string `json:"run_id"`
	FinalCount int    `json:"final_count"`
	Note       string `json:"note"`
}

func (s *Server) handleCrowdFinalCount(args json.RawMessage) (interface{}, error) {
	var a crowdAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	run, fused, err := s.analyze(a)
	if err != nil {
		return nil, err
	}

	return &finalCountResult{
		RunID:      run.ID,
		FinalCount: fused.FinalCount,
		Note:       fused.Note,
	}, nil
}

type estimatorStatusEntry struct {
	Estimator    string `json:"estimator"`
	Availability string `json:"availability"`

	// Disableable reports whether the estimator accepts the
	// disabled_estimators toggle. Direct detection does not; it runs
	// whenever its model is loaded.
	Disableable bool `json:"disableable"`
}

func (s *Server) handleEstimatorStatus(json.RawMessage) (interface{}, error) {
	status := s.registry.Status()

	entries := make([]estimatorStatusEntry, 0, len(estimate.Kinds))
	for _, kind := range estimate.Kinds {
		entries = append(entries, estimatorStatusEntry{
			Estimator:    string(kind),
			Availability: string(status[kind]),
			Disableable:  kind != estimate.DirectDetection,
		})
	}
	return entries, nil
}

// kindFromName maps a wire-format estimator name to its Kind.
func kindFromName(name string) (estimate.Kind, error) {
	for _, kind := range estimate.Kinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown estimator: %s", name)
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
