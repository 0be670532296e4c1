// Package server implements the MCP (Model Context Protocol) server that
// exposes the grayscale engine as tools.
//
// This package provides a JSON-RPC 2.0 server so that an MCP client can
// inspect images, convert them with the parallel worker grid, and compare the
// grid against the sequential and library-scheduled baselines.
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
//   - image_load: Decode an image and report its geometry
//   - image_partition: Show the row range of every worker for a height
//   - image_grayscale: Convert an image and write the result
//   - image_benchmark: Time every scheduling mode on one image
//   - image_sample_color: Inspect one pixel
//
// Engine settings (processes, threads, repeats, policy) are optional on every
// tool that takes them; omitted values come from the config.Config the server
// was created with.
//
// # Image Caching
//
// Decoded buffers are cached by path for the lifetime of the server. Every
// tool call gets its own copy, so a conversion never alters what a later call
// sees. Writing an output evicts that path from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "decode error: failed to open image ..."
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewWithConfig(cfg, log.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
