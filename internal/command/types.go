// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package command provides the command registry, parser, and dispatcher
// for online players.
package command

import (
	"context"

	"github.com/embermud/ember/internal/game"
)

// Handler is the function signature for command handlers. Handlers run on
// the simulation tick and mutate the world directly.
type Handler func(ctx context.Context, exec *Execution) error

// Entry represents a registered command.
type Entry struct {
	Name    string  // canonical name (e.g. "say")
	Aliases []string
	Handler Handler
	Help    string // short description (one line)
	Usage   string // usage pattern (e.g. "say <message>")
}

// Execution provides context for one command invocation.
type Execution struct {
	World  *game.World
	Player *game.Player
	Name   string // resolved command name as typed (before alias resolution)
	Args   string
	Raw    string
}

// Send queues a reply line for the invoking player.
func (e *Execution) Send(body string) {
	e.World.Send(e.Player.Conn, body)
}
