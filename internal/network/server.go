// Package network implements the telnet connection layer: a TCP listener,
// a registry of live connections, and the per-connection read/write
// goroutines that bridge socket bytes into the simulation's queues.
package network

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/embermud/ember/internal/logging"
	"github.com/embermud/ember/internal/observability"
)

// maxChunkSize is the largest single read from a client socket.
const maxChunkSize = 1024

// client is one registry entry. The registry exclusively owns entries;
// once removed an entry is never reused.
type client struct {
	conn   net.Conn
	outbox *outbox
}

// Server owns the listener and the connection registry, and exposes the
// queues the simulation drains once per tick. All registry operations are
// safe for concurrent use from socket goroutines and the simulation thread.
type Server struct {
	// Incoming holds accepted sockets awaiting SetupClient.
	Incoming *Queue[IncomingConnection]
	// Lost holds ids whose read side hit EOF (or whose write side failed).
	Lost *Queue[ConnectionID]
	// Events holds connection lifecycle events.
	Events *Queue[Event]
	// Inbox holds lines received from clients.
	Inbox *Queue[InboundMessage]

	mu       sync.RWMutex
	clients  map[ConnectionID]*client
	listener net.Listener
}

// NewServer creates a server with empty queues and registry.
func NewServer() *Server {
	return &Server{
		Incoming: NewQueue[IncomingConnection](),
		Lost:     NewQueue[ConnectionID](),
		Events:   NewQueue[Event](),
		Inbox:    NewQueue[InboundMessage](),
		clients:  make(map[ConnectionID]*client),
	}
}

// Addr returns the bound listen address, or "" before Listen succeeds.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Listen binds addr and accepts connections until ctx is cancelled.
// A bind failure is fatal for the listener only: it is reported as an
// error event and Listen returns. Individual accept failures are reported
// and the loop continues.
func (s *Server) Listen(ctx context.Context, addr string) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("could not bind listener", "addr", addr, "error", err)
		s.Events.Push(Event{Kind: EventError, Err: &SocketError{Op: OpListen, Err: err}})
		return
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("listening for connections", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				slog.Error("accept failed", "error", err)
				s.Events.Push(Event{Kind: EventError, Err: &SocketError{Op: OpAccept, Err: err}})
				continue
			}
		}

		addr := conn.RemoteAddr().String()
		slog.Info("incoming connection", "addr", addr)
		s.Incoming.Push(IncomingConnection{Conn: conn, Addr: addr})
	}
}

// SetupClient registers an accepted socket: generates a fresh id, emits a
// Connected event, and spawns the read and write goroutines. The registry
// owns the connection's lifecycle from here on.
func (s *Server) SetupClient(incoming IncomingConnection) ConnectionID {
	id := NewConnectionID(incoming.Addr)
	c := &client{conn: incoming.Conn, outbox: newOutbox()}

	s.mu.Lock()
	s.clients[id] = c
	s.mu.Unlock()

	s.Events.Push(Event{Kind: EventConnected, ID: id})
	observability.RecordConnection("telnet")

	go s.readLoop(id, c)
	go s.writeLoop(id, c)

	return id
}

// RemoveClient deregisters id and emits a Disconnected event. Idempotent:
// removing an unknown id is a no-op and emits nothing.
func (s *Server) RemoveClient(id ConnectionID) {
	s.mu.Lock()
	c, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	c.outbox.close()
	if err := c.conn.Close(); err != nil {
		slog.Debug("error closing connection", logging.Conn(id), "error", err)
	}

	s.Events.Push(Event{Kind: EventDisconnected, ID: id})
	observability.RecordDisconnect("telnet")
	slog.Info("client disconnected", logging.Conn(id))
}

// SendMessage enqueues a text payload for id, appending the wire line
// terminator. A send to an unknown id is a logged no-op: the connection
// raced with its own disconnect, not an error.
func (s *Server) SendMessage(body string, id ConnectionID) {
	s.send(id, pendingWrite{body: body + "\r\n"})
}

// SendCommand enqueues a raw 3-byte telnet command for id.
func (s *Server) SendCommand(command [3]byte, id ConnectionID) {
	s.send(id, pendingWrite{command: command[:]})
}

func (s *Server) send(id ConnectionID, w pendingWrite) {
	s.mu.RLock()
	c, ok := s.clients[id]
	s.mu.RUnlock()

	if !ok {
		slog.Debug("dropping send to unknown connection", logging.Conn(id))
		return
	}
	if !c.outbox.push(w) {
		slog.Debug("dropping send to closed outbox", logging.Conn(id))
	}
}

// registered reports whether id is still in the registry.
func (s *Server) registered(id ConnectionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[id]
	return ok
}

// readLoop reads chunks from the socket until EOF or error. Complete lines
// are trimmed and published to the inbox; a trailing partial line is carried
// into the next read. EOF signals a lost connection; an I/O error is
// reported as an event without the lost signal, unless the registry already
// dropped the id (removal closes the socket, which surfaces here as an
// expected error).
func (s *Server) readLoop(id ConnectionID, c *client) {
	slog.Debug("starting read loop", logging.Conn(id))

	buffer := make([]byte, maxChunkSize)
	var carry []byte

	for {
		n, err := c.conn.Read(buffer)
		if n > 0 {
			carry = s.publishLines(id, append(carry, buffer[:n]...))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if line := trimmedLine(carry); line != "" {
					s.Inbox.Push(InboundMessage{ID: id, Body: line})
				}
				s.Lost.Push(id)
				return
			}
			if !s.registered(id) {
				return
			}
			s.Events.Push(Event{Kind: EventError, ID: id, Err: &SocketError{Op: OpRead, Conn: id, Err: err}})
			return
		}
	}
}

// publishLines splits buf on newlines, publishing each complete nonempty
// line, and returns the unterminated remainder.
func (s *Server) publishLines(id ConnectionID, buf []byte) []byte {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			return buf
		}
		if line := trimmedLine(buf[:idx]); line != "" {
			s.Inbox.Push(InboundMessage{ID: id, Body: line})
		}
		buf = buf[idx+1:]
	}
}

// trimmedLine returns the whitespace-trimmed text of raw, or "" when raw is
// not valid UTF-8. Invalid input is dropped rather than treated as an error.
func trimmedLine(raw []byte) string {
	if !utf8.Valid(raw) {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// writeLoop drains the outbox in FIFO order until it is closed or a write
// fails. A failed write reports an event, signals the lost queue so the
// registry reconciles, and abandons any remaining queued writes.
func (s *Server) writeLoop(id ConnectionID, c *client) {
	for {
		w, ok := c.outbox.next()
		if !ok {
			return
		}

		payload := w.command
		if payload == nil {
			payload = []byte(w.body)
		}

		if _, err := c.conn.Write(payload); err != nil {
			if s.registered(id) {
				s.Events.Push(Event{Kind: EventError, ID: id, Err: &SocketError{Op: OpWrite, Conn: id, Err: err}})
				s.Lost.Push(id)
			}
			return
		}
	}
}
