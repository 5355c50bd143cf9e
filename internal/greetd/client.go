package greetd

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/logging"
	"github.com/muurk/cliffcrown/internal/protocol"
)

// SocketEnv names the environment variable greetd sets to its socket path.
const SocketEnv = "GREETD_SOCK"

// transport is the single connection shared, one owner at a time, by the
// state values. pending counts requests whose responses are still unread.
type transport struct {
	conn    net.Conn
	pending int
}

func (t *transport) send(req protocol.Request) error {
	if err := protocol.WriteRequest(t.conn, req); err != nil {
		logging.Warn("Failed to write request",
			zap.String("type", protocol.TypeOf(req)),
			zap.Error(err),
		)
		return newWriteError(err)
	}
	t.pending++
	logging.LogMessage("sent", req)
	return nil
}

// receive returns the response to the most recent request. Responses to
// earlier requests that were abandoned by a cancel are read and discarded.
func (t *transport) receive() (protocol.Response, error) {
	for t.pending > 1 {
		resp, err := protocol.ReadResponse(t.conn)
		if err != nil {
			return nil, newReadError(err)
		}
		t.pending--
		logging.Debug("Discarded stale response", zap.Stringer("message", resp))
	}

	resp, err := protocol.ReadResponse(t.conn)
	if err != nil {
		return nil, newReadError(err)
	}
	if t.pending > 0 {
		t.pending--
	}
	logging.LogMessage("received", resp)
	return resp, nil
}

// cancel writes CancelSession and always hands back an Unauthenticated value.
func cancel(t *transport) (*Client, error) {
	err := t.send(protocol.CancelSession{})
	return &Client{t: t}, err
}

// Client is a connection with no session requested yet.
type Client struct {
	t *transport
}

// ActiveClient has requested a session and awaits greetd's next response.
type ActiveClient struct {
	t *transport
}

// PromptingClient holds an unanswered prompt from greetd.
type PromptingClient struct {
	t      *transport
	prompt AuthPrompt
}

// SuccessfulClient is authenticated and may start the session.
type SuccessfulClient struct {
	t *transport
}

// Step is the outcome of (*ActiveClient).Next: either *PromptingClient or
// *SuccessfulClient.
type Step interface {
	isStep()
}

func (*PromptingClient) isStep()  {}
func (*SuccessfulClient) isStep() {}

type options struct {
	dialer Dialer
}

// Option configures Connect.
type Option func(*options)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// Connect dials greetd at socketPath. An empty path is reported as
// ErrMissingSocket without dialing.
func Connect(ctx context.Context, socketPath string, opts ...Option) (*Client, error) {
	if socketPath == "" {
		return nil, ErrMissingSocket
	}

	o := options{dialer: &net.Dialer{}}
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := o.dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		logging.Error("Failed to connect to greetd",
			zap.String("socket", socketPath),
			zap.Error(err),
		)
		return nil, newConnectError(err)
	}

	logging.Info("Connected to greetd", zap.String("socket", socketPath))
	return NewClient(conn), nil
}

// ConnectFromEnv dials the socket named by GREETD_SOCK.
func ConnectFromEnv(ctx context.Context, opts ...Option) (*Client, error) {
	return Connect(ctx, os.Getenv(SocketEnv), opts...)
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{t: &transport{conn: conn}}
}

func (c *Client) take() (*transport, error) {
	if c == nil || c.t == nil {
		return nil, ErrConsumed
	}
	t := c.t
	c.t = nil
	return t, nil
}

// CreateSession asks greetd to authenticate username. On a write failure c
// stays usable for a retry.
func (c *Client) CreateSession(username string) (*ActiveClient, error) {
	if c == nil || c.t == nil {
		return nil, ErrConsumed
	}
	if err := c.t.send(protocol.CreateSession{Username: username}); err != nil {
		return nil, err
	}

	t, _ := c.take()
	return &ActiveClient{t: t}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	t, err := c.take()
	if err != nil {
		return err
	}
	return t.conn.Close()
}

// Next reads greetd's response. On an error the connection comes back as an
// Unauthenticated *Client alongside it.
func (c *ActiveClient) Next() (Step, *Client, error) {
	if c == nil || c.t == nil {
		return nil, nil, ErrConsumed
	}
	t := c.t
	c.t = nil

	resp, err := t.receive()
	if err != nil {
		return nil, &Client{t: t}, err
	}

	switch r := resp.(type) {
	case protocol.Success:
		return &SuccessfulClient{t: t}, nil, nil

	case protocol.AuthMessage:
		return &PromptingClient{t: t, prompt: promptFromMessage(r)}, nil, nil

	case protocol.Error:
		kind := KindGeneric
		if r.ErrorType == protocol.ErrorTypeAuth {
			kind = KindAuth
		}
		logging.Info("greetd reported an error",
			zap.Stringer("kind", kind),
			zap.String("description", r.Description),
		)
		return nil, &Client{t: t}, &ClientError{Kind: kind, Description: r.Description}

	default:
		return nil, &Client{t: t}, newReadError(fmt.Errorf("unexpected response %T", resp))
	}
}

// watch unblocks a pending Next once ctx is done. The returned function
// stops watching and clears any deadline that was set, so the connection
// can be read again.
func (c *ActiveClient) watch(ctx context.Context) func() {
	if c == nil || c.t == nil {
		return func() {}
	}
	conn := c.t.conn
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
		close(fired)
	})
	return func() {
		if stop() {
			return
		}
		<-fired
		_ = conn.SetReadDeadline(time.Time{})
	}
}

// Cancel aborts the session. The returned *Client is always usable; the error
// reports a failed cancel write.
func (c *ActiveClient) Cancel() (*Client, error) {
	if c == nil || c.t == nil {
		return nil, ErrConsumed
	}
	t := c.t
	c.t = nil
	return cancel(t)
}

// Prompt returns the prompt that is awaiting an answer.
func (c *PromptingClient) Prompt() AuthPrompt {
	return c.prompt
}

// Next sends answer, which is nil for info and error prompts. On a write
// failure c stays usable with the same prompt.
func (c *PromptingClient) Next(answer *string) (*ActiveClient, error) {
	if c == nil || c.t == nil {
		return nil, ErrConsumed
	}
	if err := c.t.send(protocol.PostAuthMessageResponse{Response: answer}); err != nil {
		return nil, err
	}

	t := c.t
	c.t = nil
	return &ActiveClient{t: t}, nil
}

// Cancel aborts the session. The returned *Client is always usable; the error
// reports a failed cancel write.
func (c *PromptingClient) Cancel() (*Client, error) {
	if c == nil || c.t == nil {
		return nil, ErrConsumed
	}
	t := c.t
	c.t = nil
	return cancel(t)
}

// Finish asks greetd to run cmd with env once the greeter exits, then closes
// the connection. On a write failure c stays usable.
func (c *SuccessfulClient) Finish(cmd, env []string) error {
	if c == nil || c.t == nil {
		return ErrConsumed
	}
	if err := c.t.send(protocol.StartSession{Cmd: cmd, Env: env}); err != nil {
		return err
	}

	t := c.t
	c.t = nil
	if err := t.conn.Close(); err != nil {
		logging.Debug("Closing greetd connection failed", zap.Error(err))
	}
	return nil
}

// Close releases the connection without starting a session.
func (c *SuccessfulClient) Close() error {
	if c == nil || c.t == nil {
		return ErrConsumed
	}
	t := c.t
	c.t = nil
	return t.conn.Close()
}
