// Package greetd is a client for the greetd login daemon.
//
// # Connection states
//
// A connection moves through four states, each a distinct type:
//
//	Client ──CreateSession──▶ ActiveClient ──Next──▶ PromptingClient ──Next(answer)──▶ ActiveClient
//	                                          └─Next──▶ SuccessfulClient ──Finish──▶ (done)
//
// Every transition consumes its receiver: the old value gives up the
// connection to the new one, and any later call on it returns ErrConsumed
// without touching the socket. Failures never lose the connection. A failed
// write leaves the receiver usable for a retry, and a failed or refused
// Next hands back a *Client so a new session can be requested on the same
// socket. Cancel, from ActiveClient or PromptingClient, always returns a
// usable *Client.
//
//	client, err := greetd.ConnectFromEnv(ctx)
//	if err != nil {
//	    return err // ErrMissingSocket when GREETD_SOCK is unset
//	}
//	active, err := client.CreateSession("alice")
//	...
//	step, recovered, err := active.Next()
//	switch s := step.(type) {
//	case *greetd.PromptingClient:
//	    active, err = s.Next(&password)
//	case *greetd.SuccessfulClient:
//	    err = s.Finish([]string{"sway"}, nil)
//	}
//
// # Session driver
//
// ClientManager runs the state machine for one login attempt and talks to
// the interaction side through single-use channels (package oneshot). The
// interaction side sends a UsernamePacket; the manager answers with a
// StatePacket on the channel inside it; each answer to a prompt carries the
// channel for the next StatePacket. Neither side ever holds more than the one
// channel that is currently valid.
//
// When an attempt fails, Run returns the error, completes the outstanding
// reply channel without a value, and keeps the recovered connection
// available through Recovered.
package greetd
