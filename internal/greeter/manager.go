package greeter

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/greetd"
	"github.com/muurk/cliffcrown/internal/logging"
	"github.com/muurk/cliffcrown/internal/oneshot"
)

// UsernamePrompt is shown when no username is configured.
const UsernamePrompt = "Username:"

var (
	// ErrAttemptEnded is returned by Run when the session driver ended the
	// attempt with an error. The driver's error says why.
	ErrAttemptEnded = errors.New("greeter: login attempt ended by the session driver")
	// ErrInteractionLost is returned when the session driver's channel was
	// already used or dropped before the bridge could hand it a username.
	ErrInteractionLost = errors.New("greeter: session driver is not listening")
)

// Settings are the parts of the configuration the bridge needs.
type Settings struct {
	// RestrictedUser skips the username prompt when non-empty.
	RestrictedUser string
	// Command is started once authentication succeeds.
	Command []string
}

// UiManager turns session driver packets into display changes and user
// input into answers.
type UiManager struct {
	state     *UiState
	settings  Settings
	usernames *oneshot.Sender[greetd.UsernamePacket]
	repainter Repainter
}

// NewUiManager returns a bridge that writes to state and starts the attempt
// by sending on usernames. A nil repainter is allowed.
func NewUiManager(state *UiState, settings Settings, usernames *oneshot.Sender[greetd.UsernamePacket], repainter Repainter) *UiManager {
	if repainter == nil {
		repainter = noRepaint{}
	}
	return &UiManager{
		state:     state,
		settings:  settings,
		usernames: usernames,
		repainter: repainter,
	}
}

// Run performs the interaction side of one login attempt. It returns nil
// once the session command has been handed over.
func (m *UiManager) Run(ctx context.Context) error {
	defer m.state.release()
	defer func() {
		// The driver waits on this until something completes it.
		if !m.usernames.Used() {
			_ = m.usernames.Close()
		}
	}()

	// Wait for the first frame before touching the network.
	if err := m.awaitConfirm(ctx, Display{Kind: DisplayEmpty}); err != nil {
		return err
	}

	username := m.settings.RestrictedUser
	if username == "" {
		var err error
		username, err = m.awaitText(ctx, Display{Kind: DisplayMessage, Message: UsernamePrompt, Input: ShownInput})
		if err != nil {
			return err
		}
	}

	stateTx, stateRx := oneshot.New[greetd.StatePacket]()
	if err := m.usernames.Send(greetd.UsernamePacket{Username: username, Reply: stateTx}); err != nil {
		return ErrInteractionLost
	}
	m.show(Display{Kind: DisplayLoading})

	for {
		pkt, err := stateRx.Recv(ctx)
		if err != nil {
			if errors.Is(err, oneshot.ErrClosed) {
				return ErrAttemptEnded
			}
			return err
		}

		switch p := pkt.(type) {
		case greetd.PromptPacket:
			answer, err := m.answer(ctx, p.Prompt)
			if err != nil {
				_ = p.Reply.Close()
				return err
			}

			nextTx, nextRx := oneshot.New[greetd.StatePacket]()
			_ = p.Reply.Send(greetd.PromptResponsePacket{Answer: answer, Next: nextTx})
			stateRx = nextRx

		case greetd.SuccessPacket:
			m.show(Display{Kind: DisplayLoading})
			_ = p.Command.Send(append([]string(nil), m.settings.Command...))
			logging.Debug("Handed session command to driver", zap.Strings("cmd", m.settings.Command))
			return nil
		}
	}
}

// answer shows prompt and collects the reply for it.
func (m *UiManager) answer(ctx context.Context, prompt greetd.AuthPrompt) (*string, error) {
	switch p := prompt.(type) {
	case greetd.InputPrompt:
		style := ShownInput
		if p.Secret {
			style = HiddenInput
		}
		text, err := m.awaitText(ctx, Display{Kind: DisplayMessage, Message: p.Text, Input: style})
		if err != nil {
			return nil, err
		}
		m.show(Display{Kind: DisplayLoading})
		return &text, nil

	case greetd.InfoPrompt:
		// Left on screen until the next state replaces it.
		m.show(Display{Kind: DisplayMessage, Message: p.Text})
		return nil, nil

	case greetd.ErrorPrompt:
		if err := m.awaitConfirm(ctx, Display{Kind: DisplayMessage, Message: p.Text, Confirm: true}); err != nil {
			return nil, err
		}
		m.show(Display{Kind: DisplayLoading})
		return nil, nil

	default:
		return nil, nil
	}
}

// ReportFailure shows err and waits until the user acknowledges it.
func (m *UiManager) ReportFailure(ctx context.Context, err error) error {
	defer m.state.release()
	return m.awaitConfirm(ctx, Display{Kind: DisplayMessage, Message: err.Error(), Confirm: true})
}

func (m *UiManager) show(d Display) {
	m.state.setDisplay(d)
	m.repainter.RequestRepaint()
}

func (m *UiManager) awaitConfirm(ctx context.Context, d Display) error {
	rx := m.state.armConfirm(d)
	m.repainter.RequestRepaint()
	_, err := rx.Recv(ctx)
	return err
}

func (m *UiManager) awaitText(ctx context.Context, d Display) (string, error) {
	rx := m.state.armText(d)
	m.repainter.RequestRepaint()
	return rx.Recv(ctx)
}
