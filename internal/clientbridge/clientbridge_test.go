// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package clientbridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vibecraft/vibecraft/internal/config"
)

// fakeServer answers "hello" with a capabilities result and echoes
// any other request type back with ok=true and the same payload as
// its result, simulating the in-game client helper.
func fakeServer(t *testing.T) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for {
			var req envelope
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := envelope{ID: req.ID, OK: true}
			if req.Type == "hello" {
				result, _ := json.Marshal(map[string]any{"worldedit_available": true})
				resp.Result = result
			} else {
				resp.Result = req.Payload
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
}

func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	host, portStr, err := splitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return &config.Config{
		BridgeHost:            host,
		BridgePort:            port,
		BridgePath:            "/",
		RequestTimeoutSeconds: 5,
	}
}

func splitHostPort(hostport string) (string, string, error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return hostport, "", nil
	}
	return hostport[:idx], hostport[idx+1:], nil
}

func TestStartReachesReadyAndCachesCapabilities(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	b := New(testConfig(t, srv.URL), slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Close()

	if b.State() != Ready {
		t.Fatalf("state = %s, want ready", b.State())
	}
	if !b.WorldEditAvailable() {
		t.Fatal("expected worldedit_available capability to be cached true")
	}
}

func TestRequestRoundTrips(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	b := New(testConfig(t, srv.URL), slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Close()

	result, err := b.Request(ctx, "command.execute", map[string]any{"command": "/say hi"}, time.Second)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	m, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if m["command"] != "/say hi" {
		t.Fatalf("unexpected echoed payload: %+v", m)
	}
}

func TestRequestTimesOutWhenNoResponse(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Answer hello so Start succeeds, then never answer anything else.
		var req envelope
		_ = conn.ReadJSON(&req)
		result, _ := json.Marshal(map[string]any{})
		_ = conn.WriteJSON(envelope{ID: req.ID, OK: true, Result: result})
		select {}
	}))
	defer srv.Close()

	b := New(testConfig(t, srv.URL), slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Close()

	_, err := b.Request(ctx, "slow.op", map[string]any{}, 200*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestBackoffStatusStartsAtZero(t *testing.T) {
	b := New(&config.Config{RequestTimeoutSeconds: 5}, slog.New(slog.DiscardHandler))
	status := b.BackoffStatus()
	if status.Attempts != 0 {
		t.Fatalf("attempts = %d, want 0", status.Attempts)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New(&config.Config{RequestTimeoutSeconds: 5}, slog.New(slog.DiscardHandler))
	if err := b.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
