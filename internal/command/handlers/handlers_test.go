// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package handlers_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/ember/internal/command"
	"github.com/embermud/ember/internal/command/handlers"
	"github.com/embermud/ember/internal/game"
	"github.com/embermud/ember/internal/network"
)

// fixture wires a world, a registered dispatcher, and one online player at
// spawn. Handlers run through the dispatcher exactly as typed input would.
type fixture struct {
	world      *game.World
	dispatcher *command.Dispatcher
	player     *game.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	w := game.NewWorld(network.NewServer())
	registry := command.NewRegistry()
	handlers.RegisterAll(registry)

	return &fixture{
		world:      w,
		dispatcher: command.NewDispatcher(registry),
		player:     spawnOnline(w, "player", "Alice"),
	}
}

func spawnOnline(w *game.World, addr, name string) *game.Player {
	p := w.SpawnPlayer(network.NewConnectionID(addr))
	p.Auth = nil
	p.Online = true
	p.Character = game.Character{ID: 1, Name: name}
	p.Pos = w.Spawn
	return p
}

// run dispatches input for the fixture player and returns the lines queued
// for them this call.
func (f *fixture) run(t *testing.T, input string) []string {
	t.Helper()
	f.world.Outbox = f.world.Outbox[:0]
	f.dispatcher.Dispatch(t.Context(), f.world, f.player, input)

	var lines []string
	for _, msg := range f.world.Outbox {
		if msg.ID == f.player.Conn {
			lines = append(lines, msg.Body)
		}
	}
	return lines
}

func TestSay(t *testing.T) {
	f := newFixture(t)
	nearby := spawnOnline(f.world, "nearby", "Bob")
	far := spawnOnline(f.world, "far", "Carol")
	far.Pos = game.Position{X: 2, Y: 2}

	lines := f.run(t, "say hello there")
	require.Len(t, lines, 1)
	assert.Equal(t, `You say "hello there"`, lines[0])

	var heard []string
	for _, msg := range f.world.Outbox {
		if msg.ID == nearby.Conn {
			heard = append(heard, msg.Body)
		}
		assert.NotEqual(t, far.Conn, msg.ID, "players elsewhere must not hear")
	}
	require.Len(t, heard, 1)
	assert.Equal(t, `Alice said "hello there"`, heard[0])
}

func TestSay_Shorthand(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "'hi")
	require.Len(t, lines, 1)
	assert.Equal(t, `You say "hi"`, lines[0])
}

func TestSay_Empty(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "say")
	require.Len(t, lines, 1)
	assert.Equal(t, "Say what?", lines[0])
}

func TestEmote(t *testing.T) {
	f := newFixture(t)
	nearby := spawnOnline(f.world, "nearby", "Bob")

	lines := f.run(t, ";waves cheerfully")
	require.Len(t, lines, 1)
	assert.Equal(t, "Alice waves cheerfully", lines[0])

	var saw []string
	for _, msg := range f.world.Outbox {
		if msg.ID == nearby.Conn {
			saw = append(saw, msg.Body)
		}
	}
	require.Len(t, saw, 1)
	assert.Equal(t, "Alice waves cheerfully", saw[0])
}

func TestEmote_Empty(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "emote")
	require.Len(t, lines, 1)
	assert.Equal(t, "Emote what?", lines[0])
}

func TestMove(t *testing.T) {
	t.Run("walks one tile", func(t *testing.T) {
		f := newFixture(t)
		lines := f.run(t, "north")
		assert.Empty(t, lines, "movement itself is silent; look is injected")
		assert.Equal(t, game.Position{X: 0, Y: -1}, f.player.Pos)
	})

	t.Run("aliases resolve", func(t *testing.T) {
		f := newFixture(t)
		f.run(t, "ne")
		assert.Equal(t, game.Position{X: 1, Y: -1}, f.player.Pos)
	})

	t.Run("map edge blocks", func(t *testing.T) {
		f := newFixture(t)
		f.player.Pos = game.Position{X: -2, Y: 0}
		lines := f.run(t, "west")
		require.Len(t, lines, 1)
		assert.Equal(t, "You can't go that direction.", lines[0])
		assert.Equal(t, game.Position{X: -2, Y: 0}, f.player.Pos)
	})

	t.Run("collider blocks", func(t *testing.T) {
		f := newFixture(t)
		f.player.Pos = game.Position{X: 1, Y: 0}
		lines := f.run(t, "south")
		require.Len(t, lines, 1)
		assert.Equal(t, "Something blocks your way.", lines[0])
		assert.Equal(t, game.Position{X: 1, Y: 0}, f.player.Pos)
	})

	t.Run("injects auto-look", func(t *testing.T) {
		f := newFixture(t)
		f.run(t, "east")

		game.HandleInbox(t.Context(), f.world)
		require.Len(t, f.world.Inbox, 1)
		assert.Equal(t, "look", f.world.Inbox[0].Body)
		assert.True(t, f.world.Inbox[0].Internal)
	})
}

func TestLook(t *testing.T) {
	f := newFixture(t)
	spawnOnline(f.world, "nearby", "Bob")

	lines := f.run(t, "look")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "A Grassy Field")
	assert.Contains(t, lines[0], "Tall grass sways in the wind.")
	assert.Contains(t, lines[0], "A apple lies here.")
	assert.Contains(t, lines[0], "Bob is here.")
	assert.NotContains(t, lines[0], "Alice is here.", "the looker is not listed")
}

func TestMap(t *testing.T) {
	f := newFixture(t)
	f.player.Pos = game.Position{X: 0, Y: 1}
	spawnOnline(f.world, "nearby", "Bob").Pos = game.Position{X: -1, Y: 0}

	lines := f.run(t, "map")
	require.Len(t, lines, 1)
	body := lines[0]

	rows := strings.Split(body, "\r\n")
	assert.Len(t, rows, mapRows)

	assert.Equal(t, 1, strings.Count(body, "@"), "the player renders once")
	assert.Equal(t, 1, strings.Count(body, "&"), "Bob renders once")
	assert.Equal(t, 1, strings.Count(body, "~"), "the pond renders once")
	assert.Equal(t, 1, strings.Count(body, "+"), "the closed gate renders once")
	assert.Equal(t, 1, strings.Count(body, "*"), "the apple renders once")
	assert.Equal(t, 20, strings.Count(body, "."), "remaining walkable tiles render as dots")
}

// mapRows matches the rendered window height: five rows either side of
// the player plus the player's own row.
const mapRows = 11

func TestMap_Alias(t *testing.T) {
	f := newFixture(t)
	full := f.run(t, "map")
	short := f.run(t, "m")
	assert.Equal(t, full, short)
}

func TestPeer(t *testing.T) {
	f := newFixture(t)
	bob := spawnOnline(f.world, "nearby", "Bob")
	bob.Character.ID = 2

	lines := f.run(t, "peer")
	require.Len(t, lines, 1)

	items := f.world.ItemsAt(f.player.Pos)
	require.Len(t, items, 1)
	assert.Contains(t, lines[0], "Apple "+items[0].ID.String())
	assert.Contains(t, lines[0], "Bob 2")
	assert.NotContains(t, lines[0], "Alice", "the peering player is not listed")
}

func TestPeer_Alias(t *testing.T) {
	f := newFixture(t)
	full := f.run(t, "peer")
	short := f.run(t, "p")
	assert.Equal(t, full, short)
}

func TestPeer_EmptyTile(t *testing.T) {
	f := newFixture(t)
	f.player.Pos = game.Position{X: 2, Y: 2}

	lines := f.run(t, "peer")
	assert.Equal(t, []string{"There's nothing here to peer at."}, lines)
}

func TestToggleDoor(t *testing.T) {
	// The starter map's gate sits at (0,-2); stand just south of it.
	f := newFixture(t)
	f.player.Pos = game.Position{X: 0, Y: -1}
	gate := f.world.Tile(game.Position{X: 0, Y: -2})
	require.NotNil(t, gate)
	require.True(t, gate.Collider, "the gate starts closed")

	lines := f.run(t, "north")
	assert.Equal(t, []string{"Something blocks your way."}, lines)

	lines = f.run(t, "close")
	assert.Equal(t, []string{"It's already closed!"}, lines)

	lines = f.run(t, "open")
	assert.Equal(t, []string{"The door opens."}, lines)
	assert.False(t, gate.Collider)

	lines = f.run(t, "open")
	assert.Equal(t, []string{"It's already open!"}, lines)

	f.run(t, "north")
	assert.Equal(t, game.Position{X: 0, Y: -2}, f.player.Pos, "open doors are walkable")
	f.run(t, "south")

	lines = f.run(t, "close")
	assert.Equal(t, []string{"The door closes."}, lines)
	assert.True(t, gate.Collider)
}

func TestToggleDoor_NoDoorNearby(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "open")
	assert.Equal(t, []string{"There's no doors here!"}, lines)
}

func TestDispatch_FinalLineActsBeforeDespawn(t *testing.T) {
	// The read loop flushes an unterminated trailing line when the socket
	// hits EOF, so the line and the disconnect land in the same tick. The
	// line must still dispatch before the reap removes the player.
	f := newFixture(t)
	bob := spawnOnline(f.world, "nearby", "Bob")

	f.world.Events = append(f.world.Events, network.Event{Kind: network.EventDisconnected, ID: f.player.Conn})
	f.world.Inbox = append(f.world.Inbox, network.InboundMessage{ID: f.player.Conn, Body: "say bye"})

	game.HandleNetworkEvents(t.Context(), f.world)
	for _, msg := range f.world.Inbox {
		if p := f.world.Player(msg.ID); p != nil && p.Online {
			f.dispatcher.Dispatch(t.Context(), f.world, p, msg.Body)
		}
	}
	game.ReapDisconnected(t.Context(), f.world)

	var heard []string
	for _, msg := range f.world.Outbox {
		if msg.ID == bob.Conn {
			heard = append(heard, msg.Body)
		}
	}
	require.Len(t, heard, 1)
	assert.Equal(t, `Alice said "bye"`, heard[0])
	assert.Nil(t, f.world.Player(f.player.Conn))
}

func TestTakeDropInventory(t *testing.T) {
	f := newFixture(t)

	lines := f.run(t, "take")
	assert.Equal(t, []string{"Take what?"}, lines)

	lines = f.run(t, "take sword")
	assert.Equal(t, []string{"You don't see that here."}, lines)

	lines = f.run(t, "take apple")
	assert.Equal(t, []string{"You take the Apple."}, lines)
	require.Len(t, f.player.Backpack, 1)
	assert.Empty(t, f.world.ItemsAt(f.player.Pos), "taken items leave the tile")

	lines = f.run(t, "inventory")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Apple")

	lines = f.run(t, "take apple")
	assert.Equal(t, []string{"You don't see that here."}, lines)

	f.run(t, "east")
	lines = f.run(t, "drop apple")
	assert.Equal(t, []string{"You drop the Apple."}, lines)
	assert.Empty(t, f.player.Backpack)

	items := f.world.ItemsAt(f.player.Pos)
	require.Len(t, items, 1)
	assert.Equal(t, "Apple", items[0].Name)
}

func TestDrop_NotCarrying(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "drop apple")
	assert.Equal(t, []string{"You aren't carrying that."}, lines)
}

func TestInventory_Empty(t *testing.T) {
	f := newFixture(t)
	lines := f.run(t, "i")
	assert.Equal(t, []string{"You aren't carrying anything."}, lines)
}

func TestTake_ByULID(t *testing.T) {
	f := newFixture(t)
	items := f.world.ItemsAt(f.player.Pos)
	require.Len(t, items, 1)

	lines := f.run(t, "take "+items[0].ID.String())
	assert.Equal(t, []string{"You take the Apple."}, lines)
}
