// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package game holds the single-threaded simulation: the world state, the
// fixed-rate tick loop, and the systems that move network traffic in and
// out of it. All mutation happens on the tick goroutine; nothing here is
// safe for concurrent use except through the network server's queues.
package game

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/embermud/ember/internal/logging"
	"github.com/embermud/ember/internal/network"
)

// WorldTimePart tags the in-game part of day, derived from the local clock.
type WorldTimePart uint8

const (
	Dawn WorldTimePart = iota
	Day
	Dusk
	Night
)

// WorldTime is the shared clock resource updated once per tick.
type WorldTime struct {
	Time time.Time
	Part WorldTimePart
}

// World owns all simulation state plus the per-tick event queues filled by
// the ingestion systems and consumed by game logic in declared order.
type World struct {
	Server *network.Server

	Spawn Position
	Time  WorldTime

	players map[network.ConnectionID]*Player
	tiles   map[Position]*Tile
	items   map[ulid.ULID]*Item

	// Per-tick queues. Filled at the top of the tick, cleared at the end.
	Events  []network.Event
	Inbox   []network.InboundMessage
	Outbox  []network.OutboundMessage
	Prompts []network.ConnectionID

	// internal holds simulation-injected messages that become inbox
	// entries on the next drain (e.g. auto-look after movement).
	internal []network.InboundMessage
}

// NewWorld creates a world bound to the given network server, with the
// built-in starter map loaded and the spawn point set.
func NewWorld(server *network.Server) *World {
	w := &World{
		Server:  server,
		players: make(map[network.ConnectionID]*Player),
		tiles:   make(map[Position]*Tile),
		items:   make(map[ulid.ULID]*Item),
		Time:    WorldTime{Time: time.Now(), Part: Dawn},
	}
	w.loadStarterMap()
	return w
}

// Player returns the entity for a connection, or nil if none exists.
// A direct map lookup; the connection id is the join key between the
// network layer and the simulation.
func (w *World) Player(id network.ConnectionID) *Player {
	return w.players[id]
}

// Players returns all live player entities.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	return out
}

// PlayersAt returns all online players on the given tile.
func (w *World) PlayersAt(pos Position) []*Player {
	var out []*Player
	for _, p := range w.players {
		if p.Online && p.Pos == pos {
			out = append(out, p)
		}
	}
	return out
}

// SpawnPlayer creates the entity for a newly accepted connection, tagged
// as authenticating.
func (w *World) SpawnPlayer(id network.ConnectionID) *Player {
	p := &Player{
		Conn:  id,
		Width: 80,
		Auth:  &Authenticating{State: AwaitingName},
	}
	w.players[id] = p
	return p
}

// DespawnPlayer removes the entity for a connection. Removing an unknown
// id is a no-op.
func (w *World) DespawnPlayer(id network.ConnectionID) {
	if _, ok := w.players[id]; !ok {
		return
	}
	delete(w.players, id)
	slog.Info("player despawned", logging.Conn(id))
}

// Tile returns the tile at pos, or nil when off the map.
func (w *World) Tile(pos Position) *Tile {
	return w.tiles[pos]
}

// AddTile places a tile on the grid, replacing any existing one.
func (w *World) AddTile(t *Tile) {
	w.tiles[t.Pos] = t
}

// Item returns a world item by id, or nil.
func (w *World) Item(id ulid.ULID) *Item {
	return w.items[id]
}

// AddItem registers an item in the world.
func (w *World) AddItem(item *Item) {
	w.items[item.ID] = item
}

// ItemsAt returns all items lying on the given tile.
func (w *World) ItemsAt(pos Position) []*Item {
	var out []*Item
	for _, item := range w.items {
		if item.Pos != nil && *item.Pos == pos {
			out = append(out, item)
		}
	}
	return out
}

// Send queues a text line for a connection; delivered by the egress system
// at the end of the tick.
func (w *World) Send(id network.ConnectionID, body string) {
	w.Outbox = append(w.Outbox, network.OutboundMessage{ID: id, Body: body})
}

// Prompt queues a prompt refresh for a connection.
func (w *World) Prompt(id network.ConnectionID) {
	w.Prompts = append(w.Prompts, id)
}

// Inject queues a synthetic inbound message, visible to systems on the
// next inbox drain.
func (w *World) Inject(id network.ConnectionID, body string) {
	w.internal = append(w.internal, network.InboundMessage{ID: id, Body: body, Internal: true})
}

// loadStarterMap builds the small built-in grid used until world files
// land. A 5x5 clearing with a pond in the middle, a closed gate on the
// north hedge, and a few items.
func (w *World) loadStarterMap() {
	for y := -2; y <= 2; y++ {
		for x := -2; x <= 2; x++ {
			pos := Position{X: x, Y: y}
			tile := &Tile{Pos: pos, Name: "A Grassy Field", Description: "Tall grass sways in the wind."}
			if x == 1 && y == 1 {
				tile.Name = "A Still Pond"
				tile.Description = "Dark water reflects the sky."
				tile.Collider = true
			}
			w.AddTile(tile)
		}
	}

	w.AddTile(&Tile{
		Pos:         Position{X: 0, Y: -2},
		Name:        "A Garden Gate",
		Description: "A weathered wooden gate breaks the hedge.",
		Door:        true,
		Collider:    true,
	})

	apple := &Item{ID: network.NewULID(), Name: "Apple", Pos: &Position{X: 0, Y: 0}}
	w.AddItem(apple)

	w.Spawn = Position{X: 0, Y: 0}
}
