package oneshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRecv(t *testing.T) {
	tx, rx := New[string]()

	require.NoError(t, tx.Send("alice"))
	assert.True(t, tx.Used())

	got, err := rx.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestRecvBeforeSend(t *testing.T) {
	tx, rx := New[int]()

	done := make(chan int)
	go func() {
		v, err := rx.Recv(context.Background())
		assert.NoError(t, err)
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tx.Send(42))

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after Send")
	}
}

func TestSendTwice(t *testing.T) {
	tx, _ := New[int]()

	require.NoError(t, tx.Send(1))
	assert.ErrorIs(t, tx.Send(2), ErrAlreadySent)
	assert.ErrorIs(t, tx.Close(), ErrAlreadySent)
}

func TestClose(t *testing.T) {
	tx, rx := New[int]()

	require.NoError(t, tx.Close())
	assert.ErrorIs(t, tx.Send(1), ErrAlreadySent)

	_, err := rx.Recv(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRecvTwice(t *testing.T) {
	tx, rx := New[int]()
	require.NoError(t, tx.Send(7))

	_, err := rx.Recv(context.Background())
	require.NoError(t, err)

	_, err = rx.Recv(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyReceived)
}

func TestRecvContextCancelled(t *testing.T) {
	_, rx := New[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := rx.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = rx.Recv(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyReceived)
}

func TestSendWithoutReceiverDoesNotBlock(t *testing.T) {
	tx, _ := New[[]byte]()

	done := make(chan struct{})
	go func() {
		_ = tx.Send([]byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked with no receiver")
	}
}

func TestConcurrentSendersOnlyOneWins(t *testing.T) {
	tx, rx := New[int]()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tx.Send(i) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	_, err := rx.Recv(context.Background())
	assert.NoError(t, err)
}
