// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/vibecraft/vibecraft/internal/tool"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

// serverName identifies this MCP server in the initialize handshake;
// the version reported beside it is the Server's version field.
const serverName = "vibecraft"

// Server is an MCP server that exposes a tool.Registry over JSON-RPC
// 2.0, on either newline-delimited stdio or server-sent events.
type Server struct {
	registry    *tool.Registry
	logger      *slog.Logger
	version     string
	initialized bool
}

// New builds a Server bound to a tool registry. version is reported
// verbatim in the initialize response's serverInfo.
func New(registry *tool.Registry, logger *slog.Logger, version string) *Server {
	return &Server{registry: registry, logger: logger, version: version}
}

// Run processes JSON-RPC 2.0 requests from input and writes responses
// to output until input reaches EOF, one JSON object per line. This
// is VibeCraft's primary transport: an MCP client spawns the process
// and communicates over its stdin/stdout pipes.
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return writeErr
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return writeErr
				}
			}
			continue
		}

		if req.isNotification() {
			continue
		}

		if err := s.dispatch(ctx, encoder, &req); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// HandleOne dispatches a single decoded request and returns the
// encoded JSON-RPC response body, for transports (SSE) that handle
// one request per HTTP round trip rather than a persistent pipe.
func (s *Server) HandleOne(ctx context.Context, line []byte) ([]byte, error) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return encodeError(json.RawMessage("null"), codeParseError, "parse error: "+err.Error())
	}
	if req.JSONRPC != "2.0" {
		return encodeError(req.ID, codeInvalidRequest, "unsupported JSON-RPC version")
	}
	if req.isNotification() {
		return nil, nil
	}

	var buf []byte
	var werr error
	capture := &captureEncoder{}
	werr = s.dispatch(ctx, capture.encoder(), &req)
	if werr != nil {
		return nil, werr
	}
	buf = capture.bytes()
	return buf, nil
}

func (s *Server) dispatch(ctx context.Context, encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return writeResult(encoder, req.ID, map[string]any{})
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}
	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	s.initialized = true
	s.logger.Info("mcp session initialized", "client", params.ClientInfo.Name, "client_version", params.ClientInfo.Version)

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    serverCapabilities{Tools: &toolCapability{}},
		ServerInfo:      serverInfo{Name: serverName, Version: s.version},
	})
}

func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	names := s.registry.Names()
	descriptions := make([]toolDescription, 0, len(names))
	for _, name := range names {
		schema, _ := s.registry.Schema(name)
		descriptions = append(descriptions, toolDescription{
			Name:        name,
			Description: schema.Description,
			InputSchema: schema,
		})
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	output, runErr := s.registry.Call(ctx, params.Name, params.Arguments)
	result := buildToolResult(output, runErr)
	return writeResult(encoder, req.ID, result)
}

// buildToolResult assembles a toolsCallResult from a handler's
// return value and optional error. The MCP specification requires at
// least one content block in every result.
func buildToolResult(output any, runErr error) toolsCallResult {
	result := toolsCallResult{}
	if runErr != nil {
		result.IsError = true
		result.Content = []contentBlock{{Type: "text", Text: runErr.Error()}}
		result.ErrorInfo = classifyError(runErr)
		return result
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		result.IsError = true
		result.Content = []contentBlock{{Type: "text", Text: "failed to encode tool result: " + err.Error()}}
		result.ErrorInfo = &errorInfo{Category: string(toolerr.Internal), Retryable: false}
		return result
	}
	result.Content = []contentBlock{{Type: "text", Text: string(encoded)}}
	result.StructuredContent = output
	return result
}

// classifyError extracts structured error metadata from a handler's
// error, preferring a *toolerr.Error and falling back to context
// cancellation/deadline errors, which are always transient.
func classifyError(err error) *errorInfo {
	var terr *toolerr.Error
	if errors.As(err, &terr) {
		return &errorInfo{Category: string(terr.Category), Retryable: terr.Retryable()}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &errorInfo{Category: string(toolerr.Transient), Retryable: true}
	}
	return &errorInfo{Category: string(toolerr.Internal), Retryable: false}
}

func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Result: result})
}

func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func encodeError(id json.RawMessage, code int, message string) ([]byte, error) {
	capture := &captureEncoder{}
	if err := writeError(capture.encoder(), id, code, message); err != nil {
		return nil, err
	}
	return capture.bytes(), nil
}
