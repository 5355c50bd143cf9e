package greetd

import "github.com/muurk/cliffcrown/internal/oneshot"

// Packets exchanged between ClientManager and the interaction side. Every
// packet carries the single channel on which the other side must answer, so
// the two sides strictly alternate.

// UsernamePacket starts an attempt.
type UsernamePacket struct {
	Username string
	Reply    *oneshot.Sender[StatePacket]
}

// StatePacket is either PromptPacket or SuccessPacket.
type StatePacket interface {
	isStatePacket()
}

// PromptPacket forwards a prompt and the channel for its answer.
type PromptPacket struct {
	Prompt AuthPrompt
	Reply  *oneshot.Sender[PromptResponsePacket]
}

// SuccessPacket reports authentication success and asks for the session
// command.
type SuccessPacket struct {
	Command *oneshot.Sender[[]string]
}

func (PromptPacket) isStatePacket()  {}
func (SuccessPacket) isStatePacket() {}

// PromptResponsePacket answers a PromptPacket. Answer is nil for info and
// error prompts. Next receives the following StatePacket.
type PromptResponsePacket struct {
	Answer *string
	Next   *oneshot.Sender[StatePacket]
}
