// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package command

import (
	"log/slog"
	"sync"
)

// Registry manages command registration and lookup, including aliases.
// It is thread-safe for concurrent access, though in practice registration
// happens once at startup and lookups happen on the tick goroutine.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Entry
	aliases  map[string]string
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Entry),
		aliases:  make(map[string]string),
	}
}

// Register adds a command and its aliases. If a name or alias collides with
// an existing registration, the newcomer wins and a warning is logged.
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[entry.Name]; ok {
		slog.Warn("command conflict: overwriting existing command", "command", entry.Name)
	}
	r.commands[entry.Name] = entry

	for _, alias := range entry.Aliases {
		if existing, ok := r.aliases[alias]; ok {
			slog.Warn("alias conflict: overwriting existing alias",
				"alias", alias,
				"previous", existing,
				"new", entry.Name,
			)
		}
		r.aliases[alias] = entry.Name
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	entry, ok := r.commands[name]
	return entry, ok
}

// All returns all registered commands. The returned slice is a copy.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.commands))
	for _, e := range r.commands {
		entries = append(entries, e)
	}
	return entries
}
