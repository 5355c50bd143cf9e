package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decoding errors
var (
	ErrUnknownMessageType     = errors.New("unknown message type")
	ErrUnknownErrorType       = errors.New("unknown error type")
	ErrUnknownAuthMessageType = errors.New("unknown auth message type")
)

type envelope struct {
	Type string `json:"type"`
}

type createSessionWire struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type postAuthMessageResponseWire struct {
	Type     string  `json:"type"`
	Response *string `json:"response"`
}

type startSessionWire struct {
	Type string   `json:"type"`
	Cmd  []string `json:"cmd"`
	Env  []string `json:"env"`
}

type errorWire struct {
	Type        string `json:"type"`
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
}

type authMessageWire struct {
	Type            string `json:"type"`
	AuthMessageType string `json:"auth_message_type"`
	AuthMessage     string `json:"auth_message"`
}

// MarshalRequest encodes a request as its JSON payload.
func MarshalRequest(req Request) ([]byte, error) {
	var v any
	switch r := req.(type) {
	case CreateSession:
		v = createSessionWire{Type: TypeCreateSession, Username: r.Username}
	case PostAuthMessageResponse:
		v = postAuthMessageResponseWire{Type: TypePostAuthMessageResponse, Response: r.Response}
	case CancelSession:
		v = envelope{Type: TypeCancelSession}
	case StartSession:
		v = startSessionWire{Type: TypeStartSession, Cmd: nonNil(r.Cmd), Env: nonNil(r.Env)}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, req)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", req.requestType(), err)
	}
	return data, nil
}

// UnmarshalRequest decodes a JSON payload into a request.
func UnmarshalRequest(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	switch env.Type {
	case TypeCreateSession:
		var w createSessionWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return CreateSession{Username: w.Username}, nil

	case TypePostAuthMessageResponse:
		var w postAuthMessageResponseWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return PostAuthMessageResponse{Response: w.Response}, nil

	case TypeCancelSession:
		return CancelSession{}, nil

	case TypeStartSession:
		var w startSessionWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return StartSession{Cmd: nonNil(w.Cmd), Env: nonNil(w.Env)}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// MarshalResponse encodes a response as its JSON payload.
func MarshalResponse(resp Response) ([]byte, error) {
	var v any
	switch r := resp.(type) {
	case Success:
		v = envelope{Type: TypeSuccess}
	case Error:
		v = errorWire{Type: TypeError, ErrorType: r.ErrorType.String(), Description: r.Description}
	case AuthMessage:
		v = authMessageWire{Type: TypeAuthMessage, AuthMessageType: r.AuthMessageType.String(), AuthMessage: r.AuthMessage}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, resp)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", resp.responseType(), err)
	}
	return data, nil
}

// UnmarshalResponse decodes a JSON payload into a response.
func UnmarshalResponse(data []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch env.Type {
	case TypeSuccess:
		return Success{}, nil

	case TypeError:
		var w errorWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		et, err := parseErrorType(w.ErrorType)
		if err != nil {
			return nil, err
		}
		return Error{ErrorType: et, Description: w.Description}, nil

	case TypeAuthMessage:
		var w authMessageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		mt, err := parseAuthMessageType(w.AuthMessageType)
		if err != nil {
			return nil, err
		}
		return AuthMessage{AuthMessageType: mt, AuthMessage: w.AuthMessage}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// WriteRequest encodes req and writes it as one frame.
func WriteRequest(w io.Writer, req Request) error {
	data, err := MarshalRequest(req)
	if err != nil {
		return err
	}
	return WriteFrame(w, data)
}

// ReadRequest reads one frame and decodes it as a request.
func ReadRequest(r io.Reader) (Request, error) {
	data, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalRequest(data)
}

// WriteResponse encodes resp and writes it as one frame.
func WriteResponse(w io.Writer, resp Response) error {
	data, err := MarshalResponse(resp)
	if err != nil {
		return err
	}
	return WriteFrame(w, data)
}

// ReadResponse reads one frame and decodes it as a response.
func ReadResponse(r io.Reader) (Response, error) {
	data, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalResponse(data)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
