// Package greetdtest provides a scripted stand-in for the greetd daemon.
package greetdtest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muurk/cliffcrown/internal/protocol"
)

// Step is one exchange: the daemon reads a request, checks it against Want
// when Want is non-nil, and writes Reply when Reply is non-nil. Late holds
// responses to earlier requests that are written before Reply.
type Step struct {
	Want  protocol.Request
	Late  []protocol.Response
	Reply protocol.Response
}

// Expect is shorthand for a Step.
func Expect(want protocol.Request, reply protocol.Response) Step {
	return Step{Want: want, Reply: reply}
}

// ExpectLate is a Step that first answers an earlier, unanswered request.
func ExpectLate(want protocol.Request, late, reply protocol.Response) Step {
	return Step{Want: want, Late: []protocol.Response{late}, Reply: reply}
}

// Daemon serves a single connection according to its script.
type Daemon struct {
	// SocketPath is set by New; Pipe leaves it empty.
	SocketPath string

	steps []Step
	ln    net.Listener

	mu       sync.Mutex
	conn     net.Conn
	requests []protocol.Request

	done chan struct{}
	err  error
}

// New starts a daemon listening on a fresh Unix socket. It is stopped when
// the test ends.
func New(t testing.TB, steps ...Step) *Daemon {
	t.Helper()

	// Unix socket paths are length limited, so stay out of t.TempDir.
	dir, err := os.MkdirTemp("", "greetd")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "greetd.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	d := &Daemon{
		SocketPath: path,
		steps:      steps,
		ln:         ln,
		done:       make(chan struct{}),
	}
	t.Cleanup(d.Close)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			d.finish(fmt.Errorf("accept: %w", err))
			return
		}
		d.serve(conn)
	}()

	return d
}

// Pipe returns the client end of an in-memory connection served by a daemon.
func Pipe(t testing.TB, steps ...Step) (net.Conn, *Daemon) {
	t.Helper()

	client, server := net.Pipe()
	d := &Daemon{
		steps: steps,
		done:  make(chan struct{}),
	}
	t.Cleanup(d.Close)
	t.Cleanup(func() { _ = client.Close() })

	go d.serve(server)
	return client, d
}

func (d *Daemon) serve(conn net.Conn) {
	d.mu.Lock()
	d.conn = conn
	d.mu.Unlock()
	defer conn.Close()

	for i, step := range d.steps {
		req, err := protocol.ReadRequest(conn)
		if err != nil {
			d.finish(fmt.Errorf("step %d: reading request: %w", i, err))
			return
		}
		d.record(req)

		if step.Want != nil && !reflect.DeepEqual(req, step.Want) {
			d.finish(fmt.Errorf("step %d: got %s, want %s", i, req, step.Want))
			return
		}
		for _, late := range step.Late {
			if err := protocol.WriteResponse(conn, late); err != nil {
				d.finish(fmt.Errorf("step %d: writing late response: %w", i, err))
				return
			}
		}
		if step.Reply != nil {
			if err := protocol.WriteResponse(conn, step.Reply); err != nil {
				d.finish(fmt.Errorf("step %d: writing response: %w", i, err))
				return
			}
		}
	}

	// Script exhausted; the client is expected to hang up.
	req, err := protocol.ReadRequest(conn)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, net.ErrClosed) {
			d.finish(fmt.Errorf("after script: %w", err))
			return
		}
		d.finish(nil)
		return
	}
	d.record(req)
	d.finish(fmt.Errorf("unexpected request after script: %s", req))
}

func (d *Daemon) record(req protocol.Request) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
}

func (d *Daemon) finish(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	select {
	case <-d.done:
		return
	default:
	}
	d.err = err
	close(d.done)
}

// Requests returns the requests received so far.
func (d *Daemon) Requests() []protocol.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]protocol.Request(nil), d.requests...)
}

// Done is closed once the daemon stops serving.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}

// Err reports why the daemon stopped; nil means the script completed and the
// client hung up. Only meaningful after Done is closed.
func (d *Daemon) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close stops the listener and drops the connection.
func (d *Daemon) Close() {
	if d.ln != nil {
		_ = d.ln.Close()
	}
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
