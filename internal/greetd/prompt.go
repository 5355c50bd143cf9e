package greetd

import "github.com/muurk/cliffcrown/internal/protocol"

// AuthPrompt describes what greetd wants from the user.
// Implementations: InputPrompt, InfoPrompt, ErrorPrompt.
type AuthPrompt interface {
	// Message is the text to show the user.
	Message() string
	isAuthPrompt()
}

// InputPrompt expects one answer. Secret input must not be echoed.
type InputPrompt struct {
	Text   string
	Secret bool
}

// InfoPrompt is informational; it is acknowledged with no answer.
type InfoPrompt struct {
	Text string
}

// ErrorPrompt is an error notice; it is acknowledged with no answer once
// the user has seen it.
type ErrorPrompt struct {
	Text string
}

func (p InputPrompt) Message() string { return p.Text }
func (p InfoPrompt) Message() string  { return p.Text }
func (p ErrorPrompt) Message() string { return p.Text }

func (InputPrompt) isAuthPrompt() {}
func (InfoPrompt) isAuthPrompt()  {}
func (ErrorPrompt) isAuthPrompt() {}

func promptFromMessage(m protocol.AuthMessage) AuthPrompt {
	switch m.AuthMessageType {
	case protocol.AuthMessageVisible:
		return InputPrompt{Text: m.AuthMessage}
	case protocol.AuthMessageSecret:
		return InputPrompt{Text: m.AuthMessage, Secret: true}
	case protocol.AuthMessageInfo:
		return InfoPrompt{Text: m.AuthMessage}
	default:
		return ErrorPrompt{Text: m.AuthMessage}
	}
}
