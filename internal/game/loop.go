// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package game

import (
	"context"
	"time"

	"github.com/embermud/ember/internal/observability"
)

// TickRate is the fixed simulation frequency.
const TickRate = 60

// System is one stage of the tick. Systems run in registration order on
// the loop goroutine; a system must not block.
type System func(ctx context.Context, w *World)

// Loop drives the world at a fixed rate. Network ingestion systems run
// before game logic so all input observed during a tick is captured before
// any logic reads it; egress runs last.
type Loop struct {
	world   *World
	systems []System
}

// NewLoop creates a loop over the given world with no systems registered.
func NewLoop(world *World) *Loop {
	return &Loop{world: world}
}

// AddSystem appends a system to the tick order.
func (l *Loop) AddSystem(s System) {
	l.systems = append(l.systems, s)
}

// World returns the world the loop drives.
func (l *Loop) World() *World {
	return l.world
}

// Run ticks the world at TickRate until ctx is cancelled. Ticks never
// overlap; a long tick delays the next one.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick runs every system once in order, then clears the per-tick queues.
func (l *Loop) Tick(ctx context.Context) {
	start := time.Now()

	for _, system := range l.systems {
		system(ctx, l.world)
	}

	l.world.Events = l.world.Events[:0]
	l.world.Inbox = l.world.Inbox[:0]
	l.world.Outbox = l.world.Outbox[:0]
	l.world.Prompts = l.world.Prompts[:0]

	observability.RecordTick(time.Since(start))
}
