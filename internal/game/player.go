// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/embermud/ember/internal/logging"
	"github.com/embermud/ember/internal/network"
)

// HandleNetworkEvents spawns a player entity when a connection arrives.
// Lost connections are reaped by ReapDisconnected after the input systems
// have run. Errors are logged; transport failures never crash the tick.
func HandleNetworkEvents(_ context.Context, w *World) {
	for _, event := range w.Events {
		switch event.Kind {
		case network.EventConnected:
			w.SpawnPlayer(event.ID)
			w.Send(event.ID, "What's your name?")
			slog.Info("player spawned", logging.Conn(event.ID))
		case network.EventError:
			slog.Error("network error", "error", event.Err)
		}
	}
}

// ReapDisconnected despawns every player whose connection was reported
// lost this tick. The read loop flushes an unterminated trailing line at
// EOF into the same tick as the disconnect, so the reap runs after the
// input systems and that line still acts before the entity goes away.
func ReapDisconnected(_ context.Context, w *World) {
	for _, event := range w.Events {
		if event.Kind == network.EventDisconnected {
			w.DespawnPlayer(event.ID)
		}
	}
}

// EmitPromptOnInput queues a prompt refresh for every online player that
// typed something this tick. Internal messages don't count; the player
// didn't press enter for those.
func EmitPromptOnInput(_ context.Context, w *World) {
	for _, msg := range w.Inbox {
		if msg.Internal {
			continue
		}
		if p := w.Player(msg.ID); p != nil && p.Online {
			w.Prompt(msg.ID)
		}
	}
}

// SendPrompt renders and queues the prompt for everyone who needs one.
func SendPrompt(_ context.Context, w *World) {
	for _, id := range w.Prompts {
		p := w.Player(id)
		if p == nil || !p.Online {
			continue
		}
		time := w.Time.Time.Format("3:04pm")
		w.Send(id, fmt.Sprintf("%s [%s] >", p.Character.Name, time))
	}
}
