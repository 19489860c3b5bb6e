// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package game

import (
	"context"
	"log/slog"

	"github.com/embermud/ember/internal/logging"
)

// Ingestion and egress systems. They run in this order at the top of every
// tick: incoming before lost, events before inbox, so a connection's first
// message is never seen before its Connected event.

// HandleIncoming registers every socket accepted since the last tick.
func HandleIncoming(_ context.Context, w *World) {
	for _, incoming := range w.Server.Incoming.Drain() {
		slog.Debug("handling incoming connection", "addr", incoming.Addr)
		w.Server.SetupClient(incoming)
	}
}

// HandleLost removes every connection reported lost since the last tick.
func HandleLost(_ context.Context, w *World) {
	for _, id := range w.Server.Lost.Drain() {
		slog.Debug("handling lost connection", logging.Conn(id))
		w.Server.RemoveClient(id)
	}
}

// HandleEvents drains lifecycle events into the tick's event queue.
func HandleEvents(_ context.Context, w *World) {
	w.Events = append(w.Events, w.Server.Events.Drain()...)
}

// HandleInbox drains received lines, plus any simulation-injected messages,
// into the tick's inbox.
func HandleInbox(_ context.Context, w *World) {
	w.Inbox = append(w.Inbox, w.internal...)
	w.internal = w.internal[:0]
	w.Inbox = append(w.Inbox, w.Server.Inbox.Drain()...)
}

// HandleOutbox delivers everything queued for sending this tick.
func HandleOutbox(_ context.Context, w *World) {
	for _, msg := range w.Outbox {
		w.Server.SendMessage(msg.Body, msg.ID)
	}
}
