// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package network

import (
	"fmt"
	"net"
)

// EventKind discriminates connection lifecycle events.
type EventKind uint8

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a connection lifecycle event, consumed once per simulation tick.
// Err is set only for EventError; ID is the zero value for listener-level
// errors that are not tied to a connection.
type Event struct {
	Kind EventKind
	ID   ConnectionID
	Err  error
}

// ErrorOp identifies which socket operation failed.
type ErrorOp string

const (
	OpListen ErrorOp = "listen"
	OpAccept ErrorOp = "accept"
	OpRead   ErrorOp = "read"
	OpWrite  ErrorOp = "write"
)

// SocketError wraps an I/O failure with the operation and, when applicable,
// the connection it belongs to.
type SocketError struct {
	Op   ErrorOp
	Conn ConnectionID
	Err  error
}

func (e *SocketError) Error() string {
	if e.Op == OpListen || e.Op == OpAccept {
		return fmt.Sprintf("socket %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("socket %s %s: %v", e.Op, e.Conn, e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}

// IncomingConnection is an accepted socket waiting for registration.
type IncomingConnection struct {
	Conn net.Conn
	Addr string
}

// InboundMessage is one line of text received from a client, or a synthetic
// message injected by the simulation itself (Internal true) to trigger a
// command without client input.
type InboundMessage struct {
	ID       ConnectionID
	Body     string
	Internal bool
}

// OutboundMessage is a line of text bound for a specific connection.
// The wire line terminator is appended at enqueue time.
type OutboundMessage struct {
	ID   ConnectionID
	Body string
}
