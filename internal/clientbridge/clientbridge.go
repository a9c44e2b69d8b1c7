// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package clientbridge implements the Client Bridge: a persistent
// WebSocket connection to the in-game client helper, with request and
// response correlation, automatic reconnection, and capability
// negotiation.
//
// The connection-state machine, the pending-request map keyed by a
// request identifier, the single reader goroutine, and the
// exponential-backoff reconnect loop are all grounded on
// telnet2-opencode/go-memsh's client/client.go, the only real Go
// WebSocket client found in the retrieved corpus. Request IDs use
// google/uuid, following the id-generation style of the corpus's
// orchestration packages (e.g. zjrosen-perles's command/message
// identifiers) rather than a bare counter. The backoff parameters
// (base 1s, cap 30s, 0-25% jitter) and the request/session semantics
// (hello handshake, capabilities cache, WorldEdit mode enforcement,
// out-of-band inbox) are grounded on the original Python
// implementation's client_bridge.py, which this package supersedes
// with a native WebSocket transport instead of RCON.
package clientbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/toolerr"
)

// State is one of the Bridge's connection states.
type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Handshaking  State = "handshaking"
	Ready        State = "ready"
	Closing      State = "closing"
)

const (
	backoffBase       = 1 * time.Second
	backoffCap        = 30 * time.Second
	backoffJitterFrac = 0.25
)

// envelope is the wire format for both requests and responses. The
// peer echoes ID back on its response.
type envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Token   string          `json:"token,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// pendingRequest is the one-shot completion slot a caller blocks on.
type pendingRequest struct {
	resultCh chan envelope
}

// Bridge is a single persistent connection to the game-client helper.
// All exported methods are safe for concurrent use.
type Bridge struct {
	cfg    *config.Config
	logger *slog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex

	state   atomic.Value // State
	pending map[string]*pendingRequest
	pendMu  sync.Mutex

	capabilities   map[string]any
	capabilitiesMu sync.RWMutex

	inbox   []map[string]any
	inboxMu sync.Mutex

	reconnectAttempts atomic.Int32
	lastFailure       atomic.Value // time.Time

	done      chan struct{}
	closeOnce sync.Once

	worldEditAvailable atomic.Bool
}

const maxInboxSize = 100

// New constructs a Bridge bound to cfg. Call Start to connect.
func New(cfg *config.Config, logger *slog.Logger) *Bridge {
	b := &Bridge{
		cfg:     cfg,
		logger:  logger.With("component", "clientbridge"),
		pending: make(map[string]*pendingRequest),
		done:    make(chan struct{}),
	}
	b.state.Store(Disconnected)
	return b
}

// State returns the current connection state.
func (b *Bridge) State() State {
	return b.state.Load().(State)
}

func (b *Bridge) setState(s State) {
	b.state.Store(s)
	b.logger.Debug("state transition", "state", s)
}

func (b *Bridge) endpoint() url.URL {
	return url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", b.cfg.BridgeHost, b.cfg.BridgePort), Path: b.cfg.BridgePath}
}

// Start opens the WebSocket connection, performs the hello handshake,
// and spawns the reader goroutine. It makes a single attempt: it
// returns nil once Ready, or the first dial, handshake or
// authentication error.
func (b *Bridge) Start(ctx context.Context) error {
	b.setState(Connecting)
	if err := b.connect(ctx); err != nil {
		b.setState(Disconnected)
		return err
	}

	b.setState(Handshaking)
	go b.readLoop()

	caps, err := b.handshake(ctx)
	if err != nil {
		b.closeConnUnsafe()
		b.setState(Disconnected)
		return err
	}

	b.capabilitiesMu.Lock()
	b.capabilities = caps
	b.capabilitiesMu.Unlock()

	if we, ok := caps["worldedit_available"].(bool); ok {
		b.worldEditAvailable.Store(we)
	}

	b.setState(Ready)
	b.resetBackoff()
	return nil
}

func (b *Bridge) connect(ctx context.Context) error {
	u := b.endpoint()
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		b.recordFailure()
		return toolerr.TransientError("bridge: dial %s: %w", u.String(), err)
	}
	b.connMu.Lock()
	b.conn = conn
	b.connMu.Unlock()
	return nil
}

func (b *Bridge) handshake(ctx context.Context) (map[string]any, error) {
	resp, err := b.Request(ctx, "hello", map[string]any{}, 10*time.Second)
	if err != nil {
		if isAuthFailure(err) {
			return nil, toolerr.ForbiddenError("bridge: authentication failed")
		}
		return nil, err
	}
	caps, _ := resp.(map[string]any)
	return caps, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, errAuthFailed)
}

var errAuthFailed = errors.New("authentication failed")

// Capabilities returns the cached capability map from the last
// successful handshake. Empty until Start returns successfully.
func (b *Bridge) Capabilities() map[string]any {
	b.capabilitiesMu.RLock()
	defer b.capabilitiesMu.RUnlock()
	out := make(map[string]any, len(b.capabilities))
	for k, v := range b.capabilities {
		out[k] = v
	}
	return out
}

// WorldEditAvailable reports the cached capability from the hello
// handshake, used by the Build Engine under auto mode.
func (b *Bridge) WorldEditAvailable() bool {
	return b.worldEditAvailable.Load()
}

// Request sends a typed message and waits for the matching response,
// subject to timeout or ctx cancellation. Many concurrent calls are
// permitted; each gets its own pending slot.
func (b *Bridge) Request(ctx context.Context, msgType string, payload any, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		timeout = time.Duration(b.cfg.RequestTimeoutSeconds) * time.Second
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, toolerr.InternalError("bridge: marshal payload: %w", err)
	}

	id := uuid.New().String()
	req := envelope{ID: id, Type: msgType, Payload: payloadBytes, Token: b.cfg.BridgeToken}

	slot := &pendingRequest{resultCh: make(chan envelope, 1)}
	b.pendMu.Lock()
	b.pending[id] = slot
	b.pendMu.Unlock()

	defer func() {
		b.pendMu.Lock()
		delete(b.pending, id)
		b.pendMu.Unlock()
	}()

	b.connMu.Lock()
	conn := b.conn
	b.connMu.Unlock()
	if conn == nil {
		return nil, toolerr.TransientError("bridge: not connected")
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, toolerr.TransientError("bridge: write: %w", err)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case resp := <-slot.resultCh:
		if !resp.OK {
			if resp.Error == "Authentication failed" {
				return nil, errAuthFailed
			}
			return nil, toolerr.InternalError("bridge: peer error: %s", resp.Error)
		}
		var result any
		if len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return nil, toolerr.InternalError("bridge: unmarshal result: %w", err)
			}
		}
		return result, nil
	case <-deadline.C:
		return nil, toolerr.TransientError("bridge: request %s timed out after %s", msgType, timeout)
	case <-ctx.Done():
		return nil, toolerr.TransientError("bridge: request %s cancelled: %w", msgType, ctx.Err())
	case <-b.done:
		return nil, toolerr.TransientError("bridge: closed")
	}
}

// readLoop is the single reader goroutine. It owns all reads from the
// socket; writers never read, so there's no coordination needed
// beyond the pending map's mutex.
func (b *Bridge) readLoop() {
	for {
		b.connMu.Lock()
		conn := b.conn
		b.connMu.Unlock()
		if conn == nil {
			return
		}

		var resp envelope
		if err := conn.ReadJSON(&resp); err != nil {
			b.logger.Warn("bridge read failed, reconnecting", "error", err)
			b.handleDisconnect()
			return
		}

		b.pendMu.Lock()
		slot, ok := b.pending[resp.ID]
		b.pendMu.Unlock()
		if !ok {
			b.storeInbox(resp)
			continue
		}
		slot.resultCh <- resp
	}
}

func (b *Bridge) storeInbox(resp envelope) {
	var payload map[string]any
	if len(resp.Result) > 0 {
		_ = json.Unmarshal(resp.Result, &payload)
	}
	b.inboxMu.Lock()
	defer b.inboxMu.Unlock()
	b.inbox = append(b.inbox, payload)
	if len(b.inbox) > maxInboxSize {
		b.inbox = b.inbox[len(b.inbox)-maxInboxSize:]
	}
}

// DrainInbox returns and clears messages that arrived without a
// matching pending request (server-pushed events).
func (b *Bridge) DrainInbox() []map[string]any {
	b.inboxMu.Lock()
	defer b.inboxMu.Unlock()
	out := b.inbox
	b.inbox = nil
	return out
}

func (b *Bridge) handleDisconnect() {
	b.setState(Disconnected)
	b.failPendingLocked(toolerr.TransientError("bridge: connection_lost"))
	b.closeConnUnsafe()

	for {
		delay := b.nextBackoff()
		b.logger.Info("bridge reconnecting", "delay", delay)
		select {
		case <-b.done:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := b.Start(ctx)
		cancel()
		if err == nil {
			return
		}
		b.logger.Error("bridge reconnect failed", "error", err)
		var terr *toolerr.Error
		if errors.As(err, &terr) && terr.Category == toolerr.Forbidden {
			return
		}
	}
}

func (b *Bridge) failPendingLocked(err error) {
	b.pendMu.Lock()
	defer b.pendMu.Unlock()
	for id, slot := range b.pending {
		slot.resultCh <- envelope{ID: id, OK: false, Error: err.Error()}
		delete(b.pending, id)
	}
}

func (b *Bridge) closeConnUnsafe() {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

// nextBackoff computes the delay before the next reconnect attempt:
// base * 2^attempts, capped, with 0-25% jitter added.
func (b *Bridge) nextBackoff() time.Duration {
	attempt := b.reconnectAttempts.Add(1)
	delay := backoffBase * time.Duration(1<<uint(min(attempt-1, 10)))
	if delay > backoffCap {
		delay = backoffCap
	}
	jitter := time.Duration(rand.Float64() * backoffJitterFrac * float64(delay))
	b.lastFailure.Store(time.Now())
	return delay + jitter
}

func (b *Bridge) recordFailure() {
	b.lastFailure.Store(time.Now())
}

func (b *Bridge) resetBackoff() {
	b.reconnectAttempts.Store(0)
}

// BackoffStatus reports the current reconnect attempt count and the
// time of the last recorded connection failure, for introspection by
// the status tool/dashboard.
type BackoffStatus struct {
	Attempts    int32
	LastFailure time.Time
}

func (b *Bridge) BackoffStatus() BackoffStatus {
	last, _ := b.lastFailure.Load().(time.Time)
	return BackoffStatus{Attempts: b.reconnectAttempts.Load(), LastFailure: last}
}

// Close drains pending requests and shuts the connection down. Safe
// to call multiple times.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.setState(Closing)
		close(b.done)
		b.failPendingLocked(toolerr.TransientError("bridge: closed"))
		b.closeConnUnsafe()
		b.setState(Disconnected)
	})
	return nil
}
