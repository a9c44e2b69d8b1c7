// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/vibecraft/vibecraft/internal/catalog"
	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/tool"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	registry := tool.NewRegistry(&tool.Deps{Catalog: cat, Config: &config.Config{MaxCommandLength: 256}})
	return New(registry, slog.New(slog.DiscardHandler), "test")
}

func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var results []map[string]any
	dec := json.NewDecoder(out)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		results = append(results, m)
	}
	return results
}

func TestInitializeThenToolsList(t *testing.T) {
	s := testServer(t)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-11-25","clientInfo":{"name":"test"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	responses := decodeLines(t, &out)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	listResult := responses[1]["result"].(map[string]any)
	tools := listResult["tools"].([]any)
	if len(tools) != 16 {
		t.Fatalf("expected 16 tools, got %d", len(tools))
	}
}

func TestToolsListBeforeInitializeIsRejected(t *testing.T) {
	s := testServer(t)
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n"

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	responses := decodeLines(t, &out)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0]["error"] == nil {
		t.Fatal("expected an error response before initialize")
	}
}

func TestToolsCallPatternLookup(t *testing.T) {
	s := testServer(t)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-11-25","clientInfo":{"name":"test"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"pattern_lookup","arguments":{"id":"checkerboard"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	responses := decodeLines(t, &out)
	callResult := responses[1]["result"].(map[string]any)
	if isErr, _ := callResult["isError"].(bool); isErr {
		t.Fatalf("expected a successful call, got %+v", callResult)
	}
}

func TestToolsCallUnknownToolReportsNotFound(t *testing.T) {
	s := testServer(t)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-11-25","clientInfo":{"name":"test"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"no_such_tool","arguments":{}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	responses := decodeLines(t, &out)
	callResult := responses[1]["result"].(map[string]any)
	if isErr, _ := callResult["isError"].(bool); !isErr {
		t.Fatal("expected isError for an unknown tool")
	}
	errInfo := callResult["errorInfo"].(map[string]any)
	if errInfo["category"] != "not_found" {
		t.Fatalf("expected not_found category, got %v", errInfo["category"])
	}
}

func TestNotificationReceivesNoResponse(t *testing.T) {
	s := testServer(t)
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n"

	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no response to a notification, got %q", out.String())
	}
}
