// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package handlers implements the built-in player commands.
package handlers

import "github.com/embermud/ember/internal/command"

// RegisterAll adds every built-in command to the registry.
func RegisterAll(r *command.Registry) {
	r.Register(command.Entry{
		Name: "say", Aliases: []string{"'"},
		Handler: Say,
		Help:    "Say something to everyone nearby",
		Usage:   "say <message>",
	})
	r.Register(command.Entry{
		Name: "emote", Aliases: []string{";"},
		Handler: Emote,
		Help:    "Perform an action everyone nearby can see",
		Usage:   "emote <action>",
	})
	r.Register(command.Entry{
		Name: "look", Aliases: []string{"l"},
		Handler: Look,
		Help:    "Look at your surroundings",
		Usage:   "look",
	})
	r.Register(command.Entry{
		Name: "map", Aliases: []string{"m"},
		Handler: Map,
		Help:    "See a map of the area",
		Usage:   "map",
	})
	r.Register(command.Entry{
		Name: "peer", Aliases: []string{"p"},
		Handler: Peer,
		Help:    "List who and what is here, with ids",
		Usage:   "peer",
	})
	r.Register(command.Entry{
		Name:    "open",
		Handler: ToggleDoor,
		Help:    "Open a door next to you",
		Usage:   "open",
	})
	r.Register(command.Entry{
		Name:    "close",
		Handler: ToggleDoor,
		Help:    "Close a door next to you",
		Usage:   "close",
	})
	r.Register(command.Entry{
		Name: "take",
		Handler: Take,
		Help:    "Pick something up",
		Usage:   "take <item>",
	})
	r.Register(command.Entry{
		Name: "drop",
		Handler: Drop,
		Help:    "Drop something you're carrying",
		Usage:   "drop <item>",
	})
	r.Register(command.Entry{
		Name: "inventory", Aliases: []string{"i", "inv"},
		Handler: Inventory,
		Help:    "See what you're carrying",
		Usage:   "inventory",
	})

	for name, aliases := range directions {
		entry := command.Entry{
			Name:    name,
			Aliases: aliases,
			Handler: Move,
			Help:    "Walk " + name,
			Usage:   name,
		}
		r.Register(entry)
	}
}
