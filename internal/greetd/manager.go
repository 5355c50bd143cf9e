package greetd

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/logging"
	"github.com/muurk/cliffcrown/internal/oneshot"
)

// ErrBridgeGone is returned when the interaction side dropped a channel it
// was expected to answer on.
var ErrBridgeGone = errors.New("greetd: interaction side went away")

// ClientManager drives one login attempt over a Client, exchanging packets
// with the interaction side.
type ClientManager struct {
	usernames *oneshot.Receiver[UsernamePacket]
	client    *Client
	env       []string

	mu        sync.Mutex
	recovered *Client
}

// ManagerOption configures a ClientManager.
type ManagerOption func(*ClientManager)

// WithEnvironment sets the "KEY=value" entries passed to StartSession.
func WithEnvironment(env []string) ManagerOption {
	return func(m *ClientManager) {
		m.env = append([]string(nil), env...)
	}
}

// NewClientManager takes ownership of client and returns the channel the
// interaction side must send the username on.
func NewClientManager(client *Client, opts ...ManagerOption) (*oneshot.Sender[UsernamePacket], *ClientManager) {
	tx, rx := oneshot.New[UsernamePacket]()
	m := &ClientManager{
		usernames: rx,
		client:    client,
	}
	for _, opt := range opts {
		opt(m)
	}
	return tx, m
}

// Recovered returns the Unauthenticated connection left behind by a failed
// attempt, or nil. Callers may build a new ClientManager on it to retry.
func (m *ClientManager) Recovered() *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recovered
}

// Run performs the attempt. It returns nil once StartSession has been sent.
// Any error ends the attempt; no retry is made here.
func (m *ClientManager) Run(ctx context.Context) error {
	pkt, err := m.usernames.Recv(ctx)
	if err != nil {
		m.setRecovered(m.client)
		return bridgeError(err)
	}
	responder := pkt.Reply

	active, err := m.client.CreateSession(pkt.Username)
	if err != nil {
		return m.fail(responder, m.client, err)
	}
	logging.LogSessionEvent("session_created", zap.String("user", pkt.Username))

	for {
		stop := active.watch(ctx)
		step, client, err := active.Next()
		stop()
		if err != nil {
			return m.fail(responder, client, err)
		}

		switch s := step.(type) {
		case *PromptingClient:
			replyTx, replyRx := oneshot.New[PromptResponsePacket]()
			_ = responder.Send(PromptPacket{Prompt: s.Prompt(), Reply: replyTx})

			resp, err := replyRx.Recv(ctx)
			if err == nil && resp.Next == nil {
				err = ErrBridgeGone
			}
			if err != nil {
				return m.fail(nil, m.cancel(s), bridgeError(err))
			}
			responder = resp.Next

			active, err = s.Next(resp.Answer)
			if err != nil {
				return m.fail(responder, m.cancel(s), err)
			}

		case *SuccessfulClient:
			cmdTx, cmdRx := oneshot.New[[]string]()
			_ = responder.Send(SuccessPacket{Command: cmdTx})

			cmd, err := cmdRx.Recv(ctx)
			if err != nil {
				_ = s.Close()
				return bridgeError(err)
			}

			if err := s.Finish(cmd, m.env); err != nil {
				_ = s.Close()
				logging.Error("Failed to start session", zap.Error(err))
				return err
			}
			logging.LogSessionEvent("session_started", zap.Strings("cmd", cmd))
			return nil
		}
	}
}

func (m *ClientManager) cancel(s *PromptingClient) *Client {
	client, err := s.Cancel()
	if err != nil {
		logging.Warn("Failed to cancel session", zap.Error(err))
	}
	return client
}

// fail records the recovered connection and completes the pending reply
// channel without a value, so the interaction side stops waiting.
func (m *ClientManager) fail(responder *oneshot.Sender[StatePacket], client *Client, err error) error {
	m.setRecovered(client)
	if responder != nil {
		_ = responder.Close()
	}
	logging.Warn("Login attempt failed", zap.Error(err))
	return err
}

func (m *ClientManager) setRecovered(c *Client) {
	m.mu.Lock()
	m.recovered = c
	m.mu.Unlock()
}

func bridgeError(err error) error {
	if errors.Is(err, oneshot.ErrClosed) {
		return ErrBridgeGone
	}
	return err
}
