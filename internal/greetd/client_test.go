package greetd

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/muurk/cliffcrown/internal/greetd/greetdtest"
	"github.com/muurk/cliffcrown/internal/mock"
	"github.com/muurk/cliffcrown/internal/protocol"
)

var errBrokenPipe = errors.New("broken pipe")

// flakyConn fails the next failWrites writes without sending anything.
type flakyConn struct {
	net.Conn

	mu         sync.Mutex
	failWrites int
}

func (c *flakyConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	if c.failWrites > 0 {
		c.failWrites--
		c.mu.Unlock()
		return 0, errBrokenPipe
	}
	c.mu.Unlock()
	return c.Conn.Write(p)
}

func (c *flakyConn) failNext(n int) {
	c.mu.Lock()
	c.failWrites = n
	c.mu.Unlock()
}

func strPtr(s string) *string { return &s }

func waitDaemon(t *testing.T, d *greetdtest.Daemon) {
	t.Helper()
	select {
	case <-d.Done():
		require.NoError(t, d.Err())
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not finish its script")
	}
}

func connect(t *testing.T, d *greetdtest.Daemon) *Client {
	t.Helper()
	client, err := Connect(context.Background(), d.SocketPath)
	require.NoError(t, err)
	return client
}

func TestConnectMissingSocket(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any dial fails the test.
	dialer := mock.NewMockDialer(ctrl)

	client, err := Connect(context.Background(), "", WithDialer(dialer))
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrMissingSocket)
	assert.NotErrorIs(t, err, ErrConnect)
	assert.Equal(t, "GREETD_SOCK environment variable not found. Is greetd running?", err.Error())
}

func TestConnectFromEnvMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Setenv(SocketEnv, "")
	dialer := mock.NewMockDialer(ctrl)

	_, err := ConnectFromEnv(context.Background(), WithDialer(dialer))
	assert.ErrorIs(t, err, ErrMissingSocket)
}

func TestConnectDialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	refused := errors.New("connection refused")
	dialer := mock.NewMockDialer(ctrl)
	dialer.EXPECT().
		DialContext(gomock.Any(), "unix", "/run/greetd.sock").
		Return(nil, refused)

	_, err := Connect(context.Background(), "/run/greetd.sock", WithDialer(dialer))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnect)
	assert.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "couldn't connect to the greetd socket")
}

func TestConnectUsesDialerConn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conn, d := greetdtest.Pipe(t,
		greetdtest.Expect(protocol.CreateSession{Username: "alice"}, protocol.Success{}),
	)

	dialer := mock.NewMockDialer(ctrl)
	dialer.EXPECT().
		DialContext(gomock.Any(), "unix", "/run/greetd.sock").
		Return(conn, nil)

	client, err := Connect(context.Background(), "/run/greetd.sock", WithDialer(dialer))
	require.NoError(t, err)
	assert.Same(t, conn, client.t.conn)

	active, err := client.CreateSession("alice")
	require.NoError(t, err)
	step, _, err := active.Next()
	require.NoError(t, err)
	require.NoError(t, step.(*SuccessfulClient).Close())

	waitDaemon(t, d)
}

func TestFullConversation(t *testing.T) {
	d := greetdtest.New(t,
		greetdtest.Expect(protocol.CreateSession{Username: "alice"},
			protocol.AuthMessage{AuthMessageType: protocol.AuthMessageInfo, AuthMessage: "Welcome"}),
		greetdtest.Expect(protocol.PostAuthMessageResponse{},
			protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}),
		greetdtest.Expect(protocol.PostAuthMessageResponse{Response: strPtr("hunter2")},
			protocol.Success{}),
		greetdtest.Expect(protocol.StartSession{Cmd: []string{"sway"}, Env: []string{}}, nil),
	)

	client := connect(t, d)

	active, err := client.CreateSession("alice")
	require.NoError(t, err)

	step, _, err := active.Next()
	require.NoError(t, err)
	prompting := step.(*PromptingClient)
	assert.Equal(t, InfoPrompt{Text: "Welcome"}, prompting.Prompt())

	active, err = prompting.Next(nil)
	require.NoError(t, err)

	step, _, err = active.Next()
	require.NoError(t, err)
	prompting = step.(*PromptingClient)
	assert.Equal(t, InputPrompt{Text: "Password:", Secret: true}, prompting.Prompt())

	active, err = prompting.Next(strPtr("hunter2"))
	require.NoError(t, err)

	step, _, err = active.Next()
	require.NoError(t, err)
	successful, ok := step.(*SuccessfulClient)
	require.True(t, ok, "expected *SuccessfulClient, got %T", step)

	require.NoError(t, successful.Finish([]string{"sway"}, nil))

	waitDaemon(t, d)
	assert.Len(t, d.Requests(), 4)
}

func TestTransitionsConsumeReceiver(t *testing.T) {
	d := greetdtest.New(t,
		greetdtest.Expect(protocol.CreateSession{Username: "alice"},
			protocol.AuthMessage{AuthMessageType: protocol.AuthMessageVisible, AuthMessage: "Token:"}),
		greetdtest.Expect(protocol.PostAuthMessageResponse{Response: strPtr("")}, protocol.Success{}),
	)

	client := connect(t, d)

	active, err := client.CreateSession("alice")
	require.NoError(t, err)

	_, err = client.CreateSession("bob")
	assert.ErrorIs(t, err, ErrConsumed)
	assert.ErrorIs(t, client.Close(), ErrConsumed)

	step, _, err := active.Next()
	require.NoError(t, err)
	_, _, err = active.Next()
	assert.ErrorIs(t, err, ErrConsumed)
	_, err = active.Cancel()
	assert.ErrorIs(t, err, ErrConsumed)

	prompting := step.(*PromptingClient)
	active, err = prompting.Next(strPtr(""))
	require.NoError(t, err)
	_, err = prompting.Next(strPtr("again"))
	assert.ErrorIs(t, err, ErrConsumed)
	_, err = prompting.Cancel()
	assert.ErrorIs(t, err, ErrConsumed)

	step, _, err = active.Next()
	require.NoError(t, err)
	successful := step.(*SuccessfulClient)
	require.NoError(t, successful.Close())
	assert.ErrorIs(t, successful.Finish([]string{"bash"}, nil), ErrConsumed)

	waitDaemon(t, d)
	assert.Len(t, d.Requests(), 2, "consumed values must not touch the socket")
}

func TestNextErrorRecoversClient(t *testing.T) {
	tests := []struct {
		name     string
		reply    protocol.Error
		wantKind *ClientError
		notKind  *ClientError
		wantText string
	}{
		{
			name:     "auth error",
			reply:    protocol.Error{ErrorType: protocol.ErrorTypeAuth, Description: "bad credentials"},
			wantKind: ErrAuth,
			notKind:  ErrGeneric,
			wantText: "authentication error: bad credentials",
		},
		{
			name:     "generic error",
			reply:    protocol.Error{ErrorType: protocol.ErrorTypeGeneric, Description: "session already active"},
			wantKind: ErrGeneric,
			notKind:  ErrAuth,
			wantText: "generic greetd error: session already active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := greetdtest.New(t,
				greetdtest.Expect(protocol.CreateSession{Username: "alice"}, tt.reply),
				greetdtest.Expect(protocol.CreateSession{Username: "alice"}, protocol.Success{}),
			)

			client := connect(t, d)
			tr := client.t

			active, err := client.CreateSession("alice")
			require.NoError(t, err)

			step, recovered, err := active.Next()
			assert.Nil(t, step)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.NotErrorIs(t, err, tt.notKind)
			assert.Equal(t, tt.wantText, err.Error())
			assert.True(t, IsRetryable(err))

			require.NotNil(t, recovered)
			assert.Same(t, tr, recovered.t)

			// The recovered client can start over.
			active, err = recovered.CreateSession("alice")
			require.NoError(t, err)
			step, _, err = active.Next()
			require.NoError(t, err)
			require.NoError(t, step.(*SuccessfulClient).Close())

			waitDaemon(t, d)
		})
	}
}

func TestNextReadFailureRecoversClient(t *testing.T) {
	conn, d := greetdtest.Pipe(t,
		greetdtest.Expect(protocol.CreateSession{Username: "alice"}, nil),
	)
	client := NewClient(conn)
	tr := client.t

	active, err := client.CreateSession("alice")
	require.NoError(t, err)

	// The daemon hangs up without answering.
	d.Close()

	_, recovered, err := active.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
	assert.False(t, IsRetryable(err))
	require.NotNil(t, recovered)
	assert.Same(t, tr, recovered.t)
	require.NoError(t, recovered.Close())
}

func TestCancelKeepsTransport(t *testing.T) {
	t.Run("from prompting", func(t *testing.T) {
		d := greetdtest.New(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"},
				protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}),
			greetdtest.Expect(protocol.CancelSession{}, protocol.Success{}),
			greetdtest.Expect(protocol.CreateSession{Username: "bob"}, protocol.Success{}),
		)

		client := connect(t, d)
		tr := client.t

		active, err := client.CreateSession("alice")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)

		recovered, err := step.(*PromptingClient).Cancel()
		require.NoError(t, err)
		assert.Same(t, tr, recovered.t)

		active, err = recovered.CreateSession("bob")
		require.NoError(t, err)
		step, _, err = active.Next()
		require.NoError(t, err)
		require.IsType(t, &SuccessfulClient{}, step)
		require.NoError(t, step.(*SuccessfulClient).Close())

		waitDaemon(t, d)
	})

	t.Run("from active discards the abandoned replies", func(t *testing.T) {
		d := greetdtest.New(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"},
				protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}),
			greetdtest.Expect(protocol.CancelSession{}, protocol.Success{}),
			greetdtest.Expect(protocol.CreateSession{Username: "bob"},
				protocol.AuthMessage{AuthMessageType: protocol.AuthMessageVisible, AuthMessage: "OTP:"}),
			greetdtest.Expect(protocol.CancelSession{}, nil),
		)

		client := connect(t, d)
		tr := client.t

		active, err := client.CreateSession("alice")
		require.NoError(t, err)

		recovered, err := active.Cancel()
		require.NoError(t, err)
		assert.Same(t, tr, recovered.t)

		active, err = recovered.CreateSession("bob")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)
		assert.Equal(t, InputPrompt{Text: "OTP:"}, step.(*PromptingClient).Prompt())

		recovered, err = step.(*PromptingClient).Cancel()
		require.NoError(t, err)
		require.NoError(t, recovered.Close())

		waitDaemon(t, d)
	})

	t.Run("failed cancel write still returns a client", func(t *testing.T) {
		pipe, d := greetdtest.Pipe(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"},
				protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}),
		)
		conn := &flakyConn{Conn: pipe}
		client := NewClient(conn)

		active, err := client.CreateSession("alice")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)

		conn.failNext(1)
		recovered, err := step.(*PromptingClient).Cancel()
		assert.ErrorIs(t, err, ErrWrite)
		assert.ErrorIs(t, err, errBrokenPipe)
		require.NotNil(t, recovered)
		assert.Same(t, conn, recovered.t.conn)
		require.NoError(t, recovered.Close())

		waitDaemon(t, d)
	})
}

func TestWriteFailureKeepsState(t *testing.T) {
	t.Run("create session", func(t *testing.T) {
		pipe, d := greetdtest.Pipe(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"}, protocol.Success{}),
		)
		conn := &flakyConn{Conn: pipe, failWrites: 1}
		client := NewClient(conn)

		active, err := client.CreateSession("alice")
		assert.Nil(t, active)
		require.ErrorIs(t, err, ErrWrite)
		assert.Contains(t, err.Error(), "couldn't write message to socket")

		active, err = client.CreateSession("alice")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)
		require.NoError(t, step.(*SuccessfulClient).Close())

		waitDaemon(t, d)
	})

	t.Run("prompt answer", func(t *testing.T) {
		pipe, d := greetdtest.Pipe(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"},
				protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}),
			greetdtest.Expect(protocol.PostAuthMessageResponse{Response: strPtr("hunter2")}, protocol.Success{}),
		)
		conn := &flakyConn{Conn: pipe}
		client := NewClient(conn)

		active, err := client.CreateSession("alice")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)
		prompting := step.(*PromptingClient)

		conn.failNext(1)
		_, err = prompting.Next(strPtr("hunter2"))
		require.ErrorIs(t, err, ErrWrite)
		assert.Equal(t, InputPrompt{Text: "Password:", Secret: true}, prompting.Prompt())

		active, err = prompting.Next(strPtr("hunter2"))
		require.NoError(t, err)
		step, _, err = active.Next()
		require.NoError(t, err)
		require.NoError(t, step.(*SuccessfulClient).Close())

		waitDaemon(t, d)
	})

	t.Run("finish", func(t *testing.T) {
		pipe, d := greetdtest.Pipe(t,
			greetdtest.Expect(protocol.CreateSession{Username: "alice"}, protocol.Success{}),
			greetdtest.Expect(protocol.StartSession{Cmd: []string{"bash"}, Env: []string{"LANG=C"}}, nil),
		)
		conn := &flakyConn{Conn: pipe}
		client := NewClient(conn)

		active, err := client.CreateSession("alice")
		require.NoError(t, err)
		step, _, err := active.Next()
		require.NoError(t, err)
		successful := step.(*SuccessfulClient)

		conn.failNext(1)
		require.ErrorIs(t, successful.Finish([]string{"bash"}, []string{"LANG=C"}), ErrWrite)

		require.NoError(t, successful.Finish([]string{"bash"}, []string{"LANG=C"}))
		_, err = conn.Write([]byte{0})
		assert.Error(t, err, "Finish must close the connection")

		waitDaemon(t, d)
	})
}

func TestNullAndEmptyAnswersStayDistinct(t *testing.T) {
	d := greetdtest.New(t,
		greetdtest.Expect(protocol.CreateSession{Username: "alice"},
			protocol.AuthMessage{AuthMessageType: protocol.AuthMessageError, AuthMessage: "Account expires soon"}),
		greetdtest.Expect(nil,
			protocol.AuthMessage{AuthMessageType: protocol.AuthMessageVisible, AuthMessage: "PIN:"}),
		greetdtest.Expect(nil, protocol.Success{}),
	)

	client := connect(t, d)
	active, err := client.CreateSession("alice")
	require.NoError(t, err)

	step, _, err := active.Next()
	require.NoError(t, err)
	prompting := step.(*PromptingClient)
	assert.Equal(t, ErrorPrompt{Text: "Account expires soon"}, prompting.Prompt())
	active, err = prompting.Next(nil)
	require.NoError(t, err)

	step, _, err = active.Next()
	require.NoError(t, err)
	active, err = step.(*PromptingClient).Next(strPtr(""))
	require.NoError(t, err)

	step, _, err = active.Next()
	require.NoError(t, err)
	require.NoError(t, step.(*SuccessfulClient).Close())

	waitDaemon(t, d)
	reqs := d.Requests()
	require.Len(t, reqs, 3)
	assert.Nil(t, reqs[1].(protocol.PostAuthMessageResponse).Response)
	require.NotNil(t, reqs[2].(protocol.PostAuthMessageResponse).Response)
	assert.Equal(t, "", *reqs[2].(protocol.PostAuthMessageResponse).Response)
}

func TestPromptFromMessage(t *testing.T) {
	tests := []struct {
		in   protocol.AuthMessage
		want AuthPrompt
	}{
		{protocol.AuthMessage{AuthMessageType: protocol.AuthMessageVisible, AuthMessage: "Username:"}, InputPrompt{Text: "Username:"}},
		{protocol.AuthMessage{AuthMessageType: protocol.AuthMessageSecret, AuthMessage: "Password:"}, InputPrompt{Text: "Password:", Secret: true}},
		{protocol.AuthMessage{AuthMessageType: protocol.AuthMessageInfo, AuthMessage: "Touch key"}, InfoPrompt{Text: "Touch key"}},
		{protocol.AuthMessage{AuthMessageType: protocol.AuthMessageError, AuthMessage: "Locked"}, ErrorPrompt{Text: "Locked"}},
	}

	for _, tt := range tests {
		t.Run(tt.in.AuthMessageType.String(), func(t *testing.T) {
			got := promptFromMessage(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in.AuthMessage, got.Message())
		})
	}
}

func TestClientErrorKinds(t *testing.T) {
	err := newReadError(errBrokenPipe)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, errBrokenPipe)
	assert.NotErrorIs(t, err, ErrWrite)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindRead, ce.Kind)
	assert.Equal(t, "Read Error", ce.Kind.String())
	assert.False(t, ce.Retryable())
}
