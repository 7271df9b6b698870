// Package server implements the MCP (Model Context Protocol) server for
// crowd analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the fusion
// pipeline through the MCP protocol, so MCP-compatible clients can run
// multi-estimator crowd analysis over local image files.
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
// Analysis:
//   - crowd_analyze: Run every qualifying estimator, fuse, and return
//     the full render model (count, note, categories, demographics,
//     boxes, heatmap data)
//   - crowd_final_count: Analysis returning only the fused count and note
//   - estimator_status: Load state of each estimator kind
//
// Image information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// # Server State
//
// One estimator registry and one image cache are constructed in New and
// passed by reference into each analysis call. Model loading starts in
// the background at startup; tools that need a still-loading estimator
// wait a bounded time and then proceed without it.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 (or standard JSON-RPC codes for malformed requests). An
// individual estimator failing is NOT a tool error: the analysis tools
// always return a result once the registry settles, degrading to a
// zero count with a "no analysis could complete" note when every
// estimator failed.
package server
