// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// ParsedCommand represents a parsed command input.
type ParsedCommand struct {
	Name string // command name (first whitespace-delimited token)
	Args string // unparsed argument string (preserves internal whitespace)
	Raw  string // original input
}

// Parse splits raw input into command name and arguments. The name is the
// first whitespace-delimited token, lowercased; arguments preserve internal
// whitespace. Single-character say/emote shorthands (' and ;) parse as
// their own name with the rest of the line as arguments.
func Parse(input string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	if trimmed[0] == '\'' || trimmed[0] == ';' {
		return &ParsedCommand{
			Name: string(trimmed[0]),
			Args: strings.TrimLeft(trimmed[1:], " \t"),
			Raw:  input,
		}, nil
	}

	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return &ParsedCommand{
			Name: strings.ToLower(trimmed),
			Args: "",
			Raw:  input,
		}, nil
	}

	return &ParsedCommand{
		Name: strings.ToLower(trimmed[:idx]),
		Args: strings.TrimLeft(trimmed[idx+1:], " \t"),
		Raw:  input,
	}, nil
}
