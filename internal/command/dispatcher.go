// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package command

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/embermud/ember/internal/game"
	"github.com/embermud/ember/internal/logging"
)

var tracer = otel.Tracer("ember/command")

// Dispatcher resolves input lines from online players against the registry
// and executes the matching handler.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// System returns the per-tick system that dispatches every inbox message
// from an online player. Authenticating connections are skipped; the auth
// state machine owns their input.
func (d *Dispatcher) System() game.System {
	return func(ctx context.Context, w *game.World) {
		for _, msg := range w.Inbox {
			p := w.Player(msg.ID)
			if p == nil || !p.Online {
				continue
			}
			d.Dispatch(ctx, w, p, msg.Body)
		}
	}
}

// Dispatch parses and executes one input line for a player. Unknown
// commands get a short reply; handler errors are logged and surfaced to
// the player as a generic failure.
func (d *Dispatcher) Dispatch(ctx context.Context, w *game.World, p *game.Player, input string) {
	parsed, err := Parse(input)
	if err != nil {
		return
	}

	entry, ok := d.registry.Get(parsed.Name)
	if !ok {
		w.Send(p.Conn, "That's not something you can do.")
		return
	}

	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command", entry.Name),
			attribute.String("conn_id", p.Conn.String()),
		),
	)
	defer span.End()

	exec := &Execution{World: w, Player: p, Name: parsed.Name, Args: parsed.Args, Raw: parsed.Raw}
	if err := entry.Handler(ctx, exec); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Error("command failed",
			"command", entry.Name,
			logging.Conn(p.Conn),
			"error", err,
		)
		w.Send(p.Conn, "Something went wrong. Try again!")
	}
}
