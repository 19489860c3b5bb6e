// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/ember/internal/command"
	"github.com/embermud/ember/pkg/errutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs string
	}{
		{"bare command", "look", "look", ""},
		{"command with args", "say hello there", "say", "hello there"},
		{"name is lowercased", "SAY Hello", "say", "Hello"},
		{"internal whitespace preserved", "say hello   there", "say", "hello   there"},
		{"leading whitespace trimmed", "   look", "look", ""},
		{"tab separator", "take\tapple", "take", "apple"},
		{"say shorthand", "'hello there", "'", "hello there"},
		{"say shorthand with space", "' hello", "'", "hello"},
		{"emote shorthand", ";waves", ";", "waves"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := command.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, parsed.Name)
			assert.Equal(t, tt.wantArgs, parsed.Args)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		_, err := command.Parse(input)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "EMPTY_INPUT")
	}
}
