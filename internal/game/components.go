// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package game

import (
	"github.com/oklog/ulid/v2"

	"github.com/embermud/ember/internal/network"
)

// AuthState tracks where a connecting entity is in the login exchange.
type AuthState uint8

const (
	AwaitingName AuthState = iota
	AwaitingPassword
)

func (s AuthState) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingPassword:
		return "awaiting_password"
	default:
		return "unknown"
	}
}

// Authenticating carries the login progress for a connection that has not
// yet been promoted to Online. The name is collected in the first step and
// consumed by the sign-in call in the second.
type Authenticating struct {
	State AuthState
	Name  string
}

// Character is the resolved account identity attached on promotion.
type Character struct {
	ID   int64
	Name string
}

// Position is a tile coordinate on the world grid.
type Position struct {
	X, Y int
}

// Tile is one cell of the world grid. A door tile is walkable only while
// open; opening and closing flips Collider.
type Tile struct {
	Pos         Position
	Name        string
	Description string
	Collider    bool
	Door        bool
}

// Item is something that can sit on a tile or ride in a backpack.
// Pos is nil while the item is carried.
type Item struct {
	ID   ulid.ULID
	Name string
	Pos  *Position
}

// Player is the in-simulation record for one connection, from accept
// through authentication to online play. Exactly one of Auth/Online
// describes its phase: Auth non-nil while authenticating, Online true
// once promoted.
type Player struct {
	Conn      network.ConnectionID
	Width     int
	Auth      *Authenticating
	Online    bool
	Character Character
	Pos       Position
	Backpack  []ulid.ULID
}
