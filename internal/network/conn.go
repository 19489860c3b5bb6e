// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package network

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Telnet negotiation bytes. Commands are always sent as 3-byte IAC
// sequences, out of band from the line-oriented text stream.
const (
	Iac  byte = 255
	Will byte = 251
	Wont byte = 252
	Echo byte = 1
)

// EchoOff asks the client to stop local echo (password entry).
// EchoOn restores local echo afterwards.
var (
	EchoOff = [3]byte{Iac, Will, Echo}
	EchoOn  = [3]byte{Iac, Wont, Echo}
)

// ConnectionID identifies one live client socket. The token is globally
// unique; the remote address is carried for diagnostics. The struct is
// comparable and used as a map key throughout.
type ConnectionID struct {
	Token ulid.ULID
	Addr  string
}

// NewConnectionID creates an id for a connection from the given remote address.
func NewConnectionID(addr string) ConnectionID {
	return ConnectionID{Token: NewULID(), Addr: addr}
}

func (id ConnectionID) String() string {
	return fmt.Sprintf("%s@%s", id.Token.String(), id.Addr)
}

// pendingWrite is one queued outbound item: either a raw telnet command
// or a text payload, never both.
type pendingWrite struct {
	command []byte
	body    string
}
