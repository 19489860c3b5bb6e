// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/embermud/ember/internal/command"
	"github.com/embermud/ember/internal/game"
)

// directions maps canonical movement commands to their aliases.
// The grid's y axis grows southward.
var directions = map[string][]string{
	"north":     {"n"},
	"northeast": {"ne"},
	"east":      {"e"},
	"southeast": {"se"},
	"south":     {"s"},
	"southwest": {"sw"},
	"west":      {"w"},
	"northwest": {"nw"},
}

var offsets = map[string]game.Position{
	"north":     {X: 0, Y: -1},
	"northeast": {X: 1, Y: -1},
	"east":      {X: 1, Y: 0},
	"southeast": {X: 1, Y: 1},
	"south":     {X: 0, Y: 1},
	"southwest": {X: -1, Y: 1},
	"west":      {X: -1, Y: 0},
	"northwest": {X: -1, Y: -1},
}

// Move walks the player one tile in the named direction and injects an
// auto-look so the new surroundings render on the next tick.
func Move(_ context.Context, exec *command.Execution) error {
	offset, ok := offsets[canonicalDirection(exec.Name)]
	if !ok {
		return nil
	}

	wanted := game.Position{X: exec.Player.Pos.X + offset.X, Y: exec.Player.Pos.Y + offset.Y}
	tile := exec.World.Tile(wanted)
	if tile == nil {
		exec.Send("You can't go that direction.")
		return nil
	}
	if tile.Collider {
		exec.Send("Something blocks your way.")
		return nil
	}

	exec.Player.Pos = wanted
	exec.World.Inject(exec.Player.Conn, "look")
	return nil
}

func canonicalDirection(name string) string {
	if _, ok := offsets[name]; ok {
		return name
	}
	for canonical, aliases := range directions {
		for _, alias := range aliases {
			if alias == name {
				return canonical
			}
		}
	}
	return name
}

// mapHeight is the number of rows rendered above and below the player
// combined; the width tracks the player's terminal width.
const mapHeight = 10

// Map renders an ASCII window of the grid centered on the player. One
// rune per tile: @ is you, & another player, * an item, + a closed door,
// / an open one, ~ impassable ground, and a dot open ground. Off-map
// cells stay blank.
func Map(_ context.Context, exec *command.Execution) error {
	width := exec.Player.Width
	if width <= 0 {
		width = 80
	}

	var rows []string
	for y := exec.Player.Pos.Y - mapHeight/2; y <= exec.Player.Pos.Y+mapHeight/2; y++ {
		row := make([]rune, 0, width)
		for x := exec.Player.Pos.X - width/2; x <= exec.Player.Pos.X+width/2; x++ {
			row = append(row, glyphAt(exec, game.Position{X: x, Y: y}))
		}
		rows = append(rows, strings.TrimRight(string(row), " "))
	}

	exec.Send(strings.Join(rows, "\r\n"))
	return nil
}

// glyphAt picks the rune for one cell. Entities layer over terrain, and
// the invoking player layers over everything.
func glyphAt(exec *command.Execution, pos game.Position) rune {
	tile := exec.World.Tile(pos)
	if tile == nil {
		return ' '
	}
	if pos == exec.Player.Pos {
		return '@'
	}
	if len(exec.World.PlayersAt(pos)) > 0 {
		return '&'
	}
	if len(exec.World.ItemsAt(pos)) > 0 {
		return '*'
	}
	if tile.Door {
		if tile.Collider {
			return '+'
		}
		return '/'
	}
	if tile.Collider {
		return '~'
	}
	return '.'
}

// cardinals are the neighbor offsets a door can occupy relative to the
// player; doors sit on adjacent tiles, never under your feet.
var cardinals = []game.Position{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// ToggleDoor opens or closes a door on a tile next to the player. Open
// doors are walkable; closing one restores the collider.
func ToggleDoor(_ context.Context, exec *command.Execution) error {
	var door *game.Tile
	for _, offset := range cardinals {
		tile := exec.World.Tile(game.Position{X: exec.Player.Pos.X + offset.X, Y: exec.Player.Pos.Y + offset.Y})
		if tile != nil && tile.Door {
			door = tile
			break
		}
	}
	if door == nil {
		exec.Send("There's no doors here!")
		return nil
	}

	switch exec.Name {
	case "open":
		if !door.Collider {
			exec.Send("It's already open!")
			return nil
		}
		door.Collider = false
		exec.Send("The door opens.")
	case "close":
		if door.Collider {
			exec.Send("It's already closed!")
			return nil
		}
		door.Collider = true
		exec.Send("The door closes.")
	}
	return nil
}

// Peer lists everything standing or lying on the player's tile with its
// id, so items can be taken by id when names collide.
func Peer(_ context.Context, exec *command.Execution) error {
	var entries []string
	for _, item := range exec.World.ItemsAt(exec.Player.Pos) {
		entries = append(entries, fmt.Sprintf("%s %s", item.Name, item.ID))
	}
	for _, other := range exec.World.PlayersAt(exec.Player.Pos) {
		if other.Conn == exec.Player.Conn {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s %d", other.Character.Name, other.Character.ID))
	}

	if len(entries) == 0 {
		exec.Send("There's nothing here to peer at.")
		return nil
	}
	exec.Send(strings.Join(entries, ", "))
	return nil
}

// Look describes the player's tile: name, description, anything lying
// around, and anyone else standing there.
func Look(_ context.Context, exec *command.Execution) error {
	tile := exec.World.Tile(exec.Player.Pos)
	if tile == nil {
		exec.Send("You see nothing but void.")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\r\n%s", tile.Name, tile.Description)

	for _, item := range exec.World.ItemsAt(exec.Player.Pos) {
		fmt.Fprintf(&b, "\r\nA %s lies here.", strings.ToLower(item.Name))
	}

	for _, other := range exec.World.PlayersAt(exec.Player.Pos) {
		if other.Conn == exec.Player.Conn {
			continue
		}
		fmt.Fprintf(&b, "\r\n%s is here.", other.Character.Name)
	}

	exec.Send(b.String())
	return nil
}
