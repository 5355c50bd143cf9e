// Package protocol implements the greetd IPC wire format.
//
// greetd is a login manager daemon. A greeter talks to it over the Unix
// socket named by the GREETD_SOCK environment variable using a small
// request/response protocol. This package handles encoding and decoding of
// those messages; it knows nothing about which message is legal when (see
// package greetd for the connection state machine).
//
// # Framing
//
// Every message, in either direction, is a single frame:
//   - Length: 4 bytes, unsigned, host byte order
//   - Payload: Length bytes of UTF-8 JSON
//
// The host byte order is part of the greetd protocol: both peers always run
// on the same machine.
//
// # Requests
//
// Requests are sent by the greeter:
//   - CreateSession: {"type":"create_session","username":"alice"}
//   - PostAuthMessageResponse: {"type":"post_auth_message_response","response":"hunter2"}
//   - CancelSession: {"type":"cancel_session"}
//   - StartSession: {"type":"start_session","cmd":["sway"],"env":[]}
//
// PostAuthMessageResponse distinguishes an absent response (JSON null) from an
// empty one (""). Informational prompts are acknowledged with null.
//
// # Responses
//
// Responses are sent by greetd, exactly one per request:
//   - Success: {"type":"success"}
//   - Error: {"type":"error","error_type":"auth_error","description":"..."}
//   - AuthMessage: {"type":"auth_message","auth_message_type":"secret","auth_message":"Password:"}
//
// # Usage Example
//
//	// Send a request
//	err := protocol.WriteRequest(conn, protocol.CreateSession{Username: "alice"})
//	if err != nil {
//	    return err
//	}
//
//	// Read the answer
//	resp, err := protocol.ReadResponse(conn)
//	if err != nil {
//	    return err
//	}
//
//	switch r := resp.(type) {
//	case protocol.AuthMessage:
//	    fmt.Println(r.AuthMessage)
//	case protocol.Error:
//	    fmt.Println(r.Description)
//	}
//
// The Read/Write pairs are symmetric, so the same package also serves test
// doubles of the daemon (ReadRequest, WriteResponse).
//
// # Error Handling
//
// The package distinguishes between:
//   - I/O errors: wrapped with context, inspect with errors.Is / errors.As
//   - Framing errors: ErrFrameTooLarge
//   - Decoding errors: ErrUnknownMessageType, ErrUnknownErrorType,
//     ErrUnknownAuthMessageType, or a wrapped JSON error
//
// # Thread Safety
//
// All functions are stateless. Concurrent writes to the same io.Writer must be
// serialized by the caller; a frame is written with a single Write call.
package protocol
