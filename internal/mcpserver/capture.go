// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

package mcpserver

import (
	"bytes"
	"encoding/json"
)

// captureEncoder buffers a single JSON-RPC response in memory so that
// HandleOne can hand the SSE transport a complete body instead of
// writing incrementally to a persistent stream, unlike Run, which
// streams each response incrementally to stdio.
type captureEncoder struct {
	buf bytes.Buffer
}

func (c *captureEncoder) encoder() *json.Encoder {
	return json.NewEncoder(&c.buf)
}

func (c *captureEncoder) bytes() []byte {
	return c.buf.Bytes()
}
