package protocol

import "fmt"

// Message type discriminators, as carried in the "type" field.
const (
	TypeCreateSession           = "create_session"
	TypePostAuthMessageResponse = "post_auth_message_response"
	TypeCancelSession           = "cancel_session"
	TypeStartSession            = "start_session"

	TypeSuccess     = "success"
	TypeError       = "error"
	TypeAuthMessage = "auth_message"
)

// Request is a message sent by the greeter to greetd.
// The set of implementations is closed; use a type switch to inspect one.
type Request interface {
	requestType() string
	fmt.Stringer
}

// CreateSession starts an authentication conversation for Username.
type CreateSession struct {
	Username string
}

// PostAuthMessageResponse answers the most recent AuthMessage.
// A nil Response acknowledges an informational message.
type PostAuthMessageResponse struct {
	Response *string
}

// CancelSession aborts the session that is being authenticated.
type CancelSession struct{}

// StartSession asks greetd to start Cmd for the authenticated user once the
// greeter exits. Env entries are "KEY=value" pairs.
type StartSession struct {
	Cmd []string
	Env []string
}

func (CreateSession) requestType() string           { return TypeCreateSession }
func (PostAuthMessageResponse) requestType() string { return TypePostAuthMessageResponse }
func (CancelSession) requestType() string           { return TypeCancelSession }
func (StartSession) requestType() string            { return TypeStartSession }

func (r CreateSession) String() string {
	return fmt.Sprintf("CreateSession{username=%q}", r.Username)
}

// String never includes the answer itself; it may be a password.
func (r PostAuthMessageResponse) String() string {
	if r.Response == nil {
		return "PostAuthMessageResponse{response=null}"
	}
	return fmt.Sprintf("PostAuthMessageResponse{response=<%d bytes>}", len(*r.Response))
}

func (CancelSession) String() string { return "CancelSession{}" }

func (r StartSession) String() string {
	return fmt.Sprintf("StartSession{cmd=%q, env=%d entries}", r.Cmd, len(r.Env))
}

// ErrorType classifies an Error response.
type ErrorType int

const (
	// ErrorTypeGeneric is a daemon-side failure unrelated to credentials.
	ErrorTypeGeneric ErrorType = iota
	// ErrorTypeAuth means authentication was refused.
	ErrorTypeAuth
)

// String returns the wire name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeGeneric:
		return "error"
	case ErrorTypeAuth:
		return "auth_error"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

func parseErrorType(s string) (ErrorType, error) {
	switch s {
	case "error":
		return ErrorTypeGeneric, nil
	case "auth_error":
		return ErrorTypeAuth, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownErrorType, s)
	}
}

// AuthMessageType classifies an AuthMessage.
type AuthMessageType int

const (
	// AuthMessageVisible asks for input that may be echoed (a username).
	AuthMessageVisible AuthMessageType = iota
	// AuthMessageSecret asks for input that must not be echoed (a password).
	AuthMessageSecret
	// AuthMessageInfo is informational and needs no input.
	AuthMessageInfo
	// AuthMessageError is an error notice and needs no input.
	AuthMessageError
)

// String returns the wire name of the message type.
func (t AuthMessageType) String() string {
	switch t {
	case AuthMessageVisible:
		return "visible"
	case AuthMessageSecret:
		return "secret"
	case AuthMessageInfo:
		return "info"
	case AuthMessageError:
		return "error"
	default:
		return fmt.Sprintf("AuthMessageType(%d)", int(t))
	}
}

func parseAuthMessageType(s string) (AuthMessageType, error) {
	switch s {
	case "visible":
		return AuthMessageVisible, nil
	case "secret":
		return AuthMessageSecret, nil
	case "info":
		return AuthMessageInfo, nil
	case "error":
		return AuthMessageError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAuthMessageType, s)
	}
}

// Response is a message sent by greetd to the greeter.
// The set of implementations is closed; use a type switch to inspect one.
type Response interface {
	responseType() string
	fmt.Stringer
}

// Success acknowledges the previous request.
type Success struct{}

// Error reports that the previous request failed.
type Error struct {
	ErrorType   ErrorType
	Description string
}

// AuthMessage is a prompt or notice from the authentication backend.
type AuthMessage struct {
	AuthMessageType AuthMessageType
	AuthMessage     string
}

func (Success) responseType() string     { return TypeSuccess }
func (Error) responseType() string       { return TypeError }
func (AuthMessage) responseType() string { return TypeAuthMessage }

func (Success) String() string { return "Success{}" }

func (r Error) String() string {
	return fmt.Sprintf("Error{type=%s, description=%q}", r.ErrorType, r.Description)
}

func (r AuthMessage) String() string {
	return fmt.Sprintf("AuthMessage{type=%s, message=%q}", r.AuthMessageType, r.AuthMessage)
}

// TypeOf returns the wire discriminator of a request or response, or "" for
// anything else. Intended for logging.
func TypeOf(msg any) string {
	switch m := msg.(type) {
	case Request:
		return m.requestType()
	case Response:
		return m.responseType()
	default:
		return ""
	}
}
