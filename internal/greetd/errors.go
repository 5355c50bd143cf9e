package greetd

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a ClientError
type ErrorKind int

const (
	// KindMissingEnv indicates GREETD_SOCK is unset, so there is nothing to dial
	KindMissingEnv ErrorKind = iota
	// KindConnect indicates the socket could not be dialed
	KindConnect
	// KindWrite indicates a request could not be written
	KindWrite
	// KindRead indicates a response could not be read or decoded
	KindRead
	// KindGeneric indicates greetd reported a non-authentication failure
	KindGeneric
	// KindAuth indicates greetd refused the credentials
	KindAuth
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindMissingEnv:
		return "Missing Socket"
	case KindConnect:
		return "Connection Error"
	case KindWrite:
		return "Write Error"
	case KindRead:
		return "Read Error"
	case KindGeneric:
		return "Greetd Error"
	case KindAuth:
		return "Authentication Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// ClientError is returned by every fallible Client operation.
type ClientError struct {
	Kind        ErrorKind
	Description string // daemon-supplied text for KindGeneric and KindAuth
	Err         error  // underlying I/O error, if any
}

// Sentinels for errors.Is. They match any ClientError of the same kind.
var (
	ErrMissingSocket = &ClientError{Kind: KindMissingEnv}
	ErrConnect       = &ClientError{Kind: KindConnect}
	ErrWrite         = &ClientError{Kind: KindWrite}
	ErrRead          = &ClientError{Kind: KindRead}
	ErrGeneric       = &ClientError{Kind: KindGeneric}
	ErrAuth          = &ClientError{Kind: KindAuth}
)

// ErrConsumed is returned when a state value is used after it has already
// transitioned. No I/O is performed.
var ErrConsumed = errors.New("greetd: client state already consumed")

func (e *ClientError) Error() string {
	switch e.Kind {
	case KindMissingEnv:
		return "GREETD_SOCK environment variable not found. Is greetd running?"
	case KindConnect:
		return fmt.Sprintf("couldn't connect to the greetd socket: %v", e.Err)
	case KindWrite:
		return fmt.Sprintf("couldn't write message to socket: %v", e.Err)
	case KindRead:
		return fmt.Sprintf("couldn't read message from socket: %v", e.Err)
	case KindGeneric:
		return fmt.Sprintf("generic greetd error: %s", e.Description)
	case KindAuth:
		return fmt.Sprintf("authentication error: %s", e.Description)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Description)
	}
}

// Unwrap returns the underlying error
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ClientError of the same kind.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether a fresh attempt on the recovered connection may
// succeed. Daemon-reported failures leave the transport intact; I/O failures
// usually do not.
func (e *ClientError) Retryable() bool {
	return e.Kind == KindAuth || e.Kind == KindGeneric
}

// IsRetryable reports whether err is a retryable ClientError.
func IsRetryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Retryable()
	}
	return false
}

func newConnectError(err error) error {
	return &ClientError{Kind: KindConnect, Err: err}
}

func newWriteError(err error) error {
	return &ClientError{Kind: KindWrite, Err: err}
}

func newReadError(err error) error {
	return &ClientError{Kind: KindRead, Err: err}
}
