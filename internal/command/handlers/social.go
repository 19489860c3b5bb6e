// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/embermud/ember/internal/command"
)

// Say broadcasts a phrase to everyone on the speaker's tile.
func Say(_ context.Context, exec *command.Execution) error {
	phrase := strings.TrimSpace(exec.Args)
	if phrase == "" {
		exec.Send("Say what?")
		return nil
	}

	exec.Send(fmt.Sprintf("You say %q", phrase))

	for _, other := range exec.World.PlayersAt(exec.Player.Pos) {
		if other.Conn == exec.Player.Conn {
			continue
		}
		exec.World.Send(other.Conn, fmt.Sprintf("%s said %q", exec.Player.Character.Name, phrase))
	}
	return nil
}

// Emote shows an action to everyone on the actor's tile, actor included.
func Emote(_ context.Context, exec *command.Execution) error {
	action := strings.TrimSpace(exec.Args)
	if action == "" {
		exec.Send("Emote what?")
		return nil
	}

	line := fmt.Sprintf("%s %s", exec.Player.Character.Name, action)
	exec.Send(line)

	for _, other := range exec.World.PlayersAt(exec.Player.Pos) {
		if other.Conn == exec.Player.Conn {
			continue
		}
		exec.World.Send(other.Conn, line)
	}
	return nil
}
