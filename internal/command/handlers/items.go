// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/embermud/ember/internal/command"
)

// backpackLimit caps how much a player can carry.
const backpackLimit = 50

// Take moves an item from the player's tile into their backpack.
func Take(_ context.Context, exec *command.Execution) error {
	wanted := strings.ToLower(strings.TrimSpace(exec.Args))
	if wanted == "" {
		exec.Send("Take what?")
		return nil
	}

	if len(exec.Player.Backpack) >= backpackLimit {
		exec.Send("You can't carry anything else!")
		return nil
	}

	for _, item := range exec.World.ItemsAt(exec.Player.Pos) {
		if strings.ToLower(item.Name) == wanted || item.ID.String() == exec.Args {
			item.Pos = nil
			exec.Player.Backpack = append(exec.Player.Backpack, item.ID)
			exec.Send(fmt.Sprintf("You take the %s.", item.Name))
			return nil
		}
	}

	exec.Send("You don't see that here.")
	return nil
}

// Drop moves an item from the player's backpack onto their tile.
func Drop(_ context.Context, exec *command.Execution) error {
	wanted := strings.ToLower(strings.TrimSpace(exec.Args))
	if wanted == "" {
		exec.Send("Drop what?")
		return nil
	}

	for i, id := range exec.Player.Backpack {
		item := exec.World.Item(id)
		if item == nil {
			continue
		}
		if strings.ToLower(item.Name) == wanted || item.ID.String() == exec.Args {
			pos := exec.Player.Pos
			item.Pos = &pos
			exec.Player.Backpack = append(exec.Player.Backpack[:i], exec.Player.Backpack[i+1:]...)
			exec.Send(fmt.Sprintf("You drop the %s.", item.Name))
			return nil
		}
	}

	exec.Send("You aren't carrying that.")
	return nil
}

// Inventory lists the player's backpack contents.
func Inventory(_ context.Context, exec *command.Execution) error {
	if len(exec.Player.Backpack) == 0 {
		exec.Send("You aren't carrying anything.")
		return nil
	}

	var b strings.Builder
	b.WriteString("You are carrying:")
	for _, id := range exec.Player.Backpack {
		if item := exec.World.Item(id); item != nil {
			fmt.Fprintf(&b, "\r\n  %s", item.Name)
		}
	}
	exec.Send(b.String())
	return nil
}
