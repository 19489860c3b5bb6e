// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

//go:build integration

package integration

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/embermud/ember/internal/auth"
	"github.com/embermud/ember/internal/authd"
	"github.com/embermud/ember/internal/command"
	"github.com/embermud/ember/internal/command/handlers"
	"github.com/embermud/ember/internal/game"
	"github.com/embermud/ember/internal/network"
)

// testEnv runs the full stack: a credential service over an in-memory user
// store, the telnet connection layer, and the simulation loop.
type testEnv struct {
	ctx    context.Context
	cancel context.CancelFunc
	authd  *httptest.Server
	server *network.Server
	world  *game.World
}

func setupTestEnv() *testEnv {
	ctx, cancel := context.WithCancel(context.Background())

	tokens, err := authd.NewJWTIssuer("integration-secret")
	Expect(err).NotTo(HaveOccurred())
	service, err := authd.NewService(authd.NewMemoryUserRepository(), authd.NewArgon2idHasher(), tokens)
	Expect(err).NotTo(HaveOccurred())
	authdSrv := httptest.NewServer(authd.NewRouter(service, slog.Default()))

	server := network.NewServer()
	world := game.NewWorld(server)

	registry := command.NewRegistry()
	handlers.RegisterAll(registry)
	dispatcher := command.NewDispatcher(registry)

	loop := game.NewLoop(world)
	for _, system := range []game.System{
		game.HandleIncoming,
		game.HandleLost,
		game.HandleEvents,
		game.HandleInbox,
		game.HandleNetworkEvents,
		auth.NewSystem(auth.NewClient(authdSrv.URL)),
		game.EmitPromptOnInput,
		game.UpdateWorldTime,
		dispatcher.System(),
		game.ReapDisconnected,
		game.SendPrompt,
		game.HandleOutbox,
	} {
		loop.AddSystem(system)
	}

	go server.Listen(ctx, "127.0.0.1:0")
	Eventually(server.Addr).ShouldNot(BeEmpty())
	go loop.Run(ctx) //nolint:errcheck // stopped via ctx

	return &testEnv{ctx: ctx, cancel: cancel, authd: authdSrv, server: server, world: world}
}

func (env *testEnv) teardown() {
	env.cancel()
	env.authd.Close()
}

// telnetClient is a minimal line-oriented client that strips IAC sequences.
type telnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (env *testEnv) dial() *telnetClient {
	conn, err := net.Dial("tcp", env.server.Addr())
	Expect(err).NotTo(HaveOccurred())
	return &telnetClient{conn: conn, reader: bufio.NewReader(conn)}
}

func (c *telnetClient) close() {
	_ = c.conn.Close() //nolint:errcheck // test cleanup
}

func (c *telnetClient) send(line string) {
	_, err := c.conn.Write([]byte(line + "\r\n"))
	Expect(err).NotTo(HaveOccurred())
}

// readLine returns the next text line, dropping any telnet commands that
// precede it.
func (c *telnetClient) readLine() string {
	Expect(c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))).To(Succeed())
	for {
		b, err := c.reader.ReadByte()
		Expect(err).NotTo(HaveOccurred())
		if b == 255 {
			_, err := c.reader.Discard(2)
			Expect(err).NotTo(HaveOccurred())
			continue
		}
		Expect(c.reader.UnreadByte()).To(Succeed())
		line, err := c.reader.ReadString('\n')
		Expect(err).NotTo(HaveOccurred())
		return strings.TrimRight(line, "\r\n")
	}
}

var _ = Describe("Login flow", func() {
	var env *testEnv

	BeforeEach(func() {
		env = setupTestEnv()
	})

	AfterEach(func() {
		env.teardown()
	})

	It("walks a new player from connect to online", func() {
		client := env.dial()
		defer client.close()

		Expect(client.readLine()).To(Equal("What's your name?"))

		client.send("Al")
		Expect(client.readLine()).To(Equal("That's not a valid name. Try again!"))

		client.send("Alice")
		Expect(client.readLine()).To(Equal("Looks like this is a new character. What password would you like to use?"))

		client.send("hunter22")
		Expect(client.readLine()).To(Equal("Authenticated."))
		Expect(client.readLine()).To(HavePrefix("Alice ["))
	})

	It("asks returning players for their password", func() {
		first := env.dial()
		first.readLine()
		first.send("Alice")
		first.readLine()
		first.send("hunter22")
		first.readLine()
		first.readLine()
		first.close()

		second := env.dial()
		defer second.close()
		Expect(second.readLine()).To(Equal("What's your name?"))

		second.send("Alice")
		Expect(second.readLine()).To(Equal("What's your password?"))

		second.send("wrong-pass")
		Expect(second.readLine()).To(Equal("Incorrect password. Try again!"))

		second.send("hunter22")
		Expect(second.readLine()).To(Equal("Authenticated."))
	})

	It("dispatches commands once online", func() {
		client := env.dial()
		defer client.close()
		client.readLine()
		client.send("Alice")
		client.readLine()
		client.send("hunter22")
		client.readLine()
		client.readLine()

		client.send("look")
		Expect(client.readLine()).To(Equal("A Grassy Field"))
		Expect(client.readLine()).To(Equal("Tall grass sways in the wind."))
		Expect(client.readLine()).To(Equal("A apple lies here."))
		Expect(client.readLine()).To(HavePrefix("Alice ["))
	})

	It("cleans up the player when the socket drops", func() {
		login := func(name string) *telnetClient {
			c := env.dial()
			c.readLine()
			c.send(name)
			c.readLine()
			c.send("hunter22")
			c.readLine()
			c.readLine()
			return c
		}

		alice := login("Alice")
		bob := login("Bob")
		defer bob.close()

		bob.send("look")
		Eventually(func() string {
			return bob.readLine()
		}).Should(Equal("Alice is here."))
		bob.readLine() // prompt

		alice.close()

		// Despawn rides the lost queue; poll until look stops seeing her.
		Eventually(func() string {
			bob.send("look")
			var lines []string
			for {
				line := bob.readLine()
				if strings.HasPrefix(line, "Bob [") {
					break
				}
				lines = append(lines, line)
			}
			return strings.Join(lines, "\n")
		}).ShouldNot(ContainSubstring("Alice is here."))
	})
})
