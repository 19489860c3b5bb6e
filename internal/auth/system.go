// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/embermud/ember/internal/game"
	"github.com/embermud/ember/internal/logging"
	"github.com/embermud/ember/internal/network"
	"github.com/embermud/ember/internal/observability"
)

// NewSystem returns the per-tick authentication system. It intercepts every
// inbox message belonging to a connection that is still authenticating and
// drives the name/password exchange against the credential service.
//
// Echo suppression commands go straight onto the connection's outbound
// queue, ahead of the prompt text that egress delivers at the end of the
// tick, so the client disables local echo before the password prompt lands.
func NewSystem(client CredentialClient) game.System {
	return func(ctx context.Context, w *game.World) {
		for _, msg := range w.Inbox {
			p := w.Player(msg.ID)
			if p == nil || p.Auth == nil {
				continue
			}

			switch p.Auth.State {
			case game.AwaitingName:
				handleName(ctx, w, p, client, msg.Body)
			case game.AwaitingPassword:
				handlePassword(ctx, w, p, client, msg.Body)
			}
		}
	}
}

func handleName(ctx context.Context, w *game.World, p *game.Player, client CredentialClient, name string) {
	// Validation is just a minimum length for now.
	if len(name) < 3 {
		w.Send(p.Conn, "That's not a valid name. Try again!")
		return
	}

	found, err := client.UserExists(ctx, name)
	if err != nil {
		// The backend is broken or unreachable. Stay in AwaitingName;
		// advancing here would walk the player into a sign-in that
		// cannot succeed.
		slog.Error("user_exists failed", logging.Conn(p.Conn), "error", err)
		observability.RecordAuthAttempt("error")
		w.Send(p.Conn, "Uh oh, something broke!")
		return
	}

	// Stop the client echoing before the password prompt arrives.
	w.Server.SendCommand(network.EchoOff, p.Conn)

	if found {
		w.Send(p.Conn, "What's your password?")
	} else {
		w.Send(p.Conn, "Looks like this is a new character. What password would you like to use?")
	}

	p.Auth.Name = name
	p.Auth.State = game.AwaitingPassword
}

func handlePassword(ctx context.Context, w *game.World, p *game.Player, client CredentialClient, password string) {
	if len(password) < 3 {
		w.Send(p.Conn, "That's not a valid password. Try again!")
		return
	}

	resp, err := client.SignIn(ctx, p.Auth.Name, password)
	switch {
	case err == nil:
		w.Server.SendCommand(network.EchoOn, p.Conn)
		w.Send(p.Conn, "Authenticated.")
		w.Prompt(p.Conn)

		// Promote: drop the authenticating tag and set the player up.
		p.Auth = nil
		p.Online = true
		p.Character = game.Character{ID: resp.ID, Name: resp.Name}
		p.Pos = w.Spawn
		p.Backpack = nil

		observability.RecordAuthAttempt("success")
		slog.Info("player authenticated",
			logging.Conn(p.Conn),
			"character", resp.Name,
		)

	case errors.Is(err, ErrForbidden):
		observability.RecordAuthAttempt("rejected")
		w.Send(p.Conn, "Incorrect password. Try again!")

	default:
		slog.Error("sign_in failed", logging.Conn(p.Conn), "error", err)
		observability.RecordAuthAttempt("error")
		w.Send(p.Conn, "Uh oh, something broke!")
	}
}
