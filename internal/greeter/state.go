package greeter

import (
	"sync"

	"github.com/muurk/cliffcrown/internal/oneshot"
)

// DisplayKind selects what the screen shows.
type DisplayKind int

const (
	DisplayEmpty DisplayKind = iota
	DisplayMessage
	DisplayLoading
)

// InputStyle describes the text field shown under a message.
type InputStyle int

const (
	NoInput InputStyle = iota
	HiddenInput
	ShownInput
)

// Display is what the rendering loop should draw.
type Display struct {
	Kind    DisplayKind
	Message string
	Input   InputStyle
	// Confirm asks the renderer to hint that the user must acknowledge.
	Confirm bool
}

// InputMode is what the rendering loop should do with user input.
type InputMode int

const (
	// InputNone ignores input.
	InputNone InputMode = iota
	// InputConfirm waits for a single confirmation.
	InputConfirm
	// InputText captures a line of text.
	InputText
)

func (m InputMode) String() string {
	switch m {
	case InputNone:
		return "none"
	case InputConfirm:
		return "confirm"
	case InputText:
		return "text"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the shared cells.
type Snapshot struct {
	Display    Display
	Mode       InputMode
	Generation uint64
}

// UiState holds the display and input-mode cells shared between the bridge,
// which is their only writer, and the rendering loop.
type UiState struct {
	mu         sync.RWMutex
	display    Display
	mode       InputMode
	confirm    *oneshot.Sender[struct{}]
	text       *oneshot.Sender[string]
	generation uint64
}

// NewUiState returns empty cells with no input expected.
func NewUiState() *UiState {
	return &UiState{}
}

// Snapshot copies both cells.
func (s *UiState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Display:    s.display,
		Mode:       s.mode,
		Generation: s.generation,
	}
}

// Changed reports whether the cells were written since generation.
func (s *UiState) Changed(since uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation != since
}

// Confirm delivers a confirmation if one is awaited and reports whether it
// was. The input mode goes back to InputNone in the same step.
func (s *UiState) Confirm() bool {
	s.mu.Lock()
	if s.mode != InputConfirm {
		s.mu.Unlock()
		return false
	}
	tx := s.confirm
	s.confirm = nil
	s.mode = InputNone
	s.generation++
	s.mu.Unlock()

	return tx.Send(struct{}{}) == nil
}

// SubmitText delivers captured text if text is awaited and reports whether
// it was. The input mode goes back to InputNone in the same step.
func (s *UiState) SubmitText(text string) bool {
	s.mu.Lock()
	if s.mode != InputText {
		s.mu.Unlock()
		return false
	}
	tx := s.text
	s.text = nil
	s.mode = InputNone
	s.generation++
	s.mu.Unlock()

	return tx.Send(text) == nil
}

func (s *UiState) setDisplay(d Display) {
	s.mu.Lock()
	s.display = d
	s.generation++
	s.mu.Unlock()
}

// armConfirm shows d and waits for a confirmation.
func (s *UiState) armConfirm(d Display) *oneshot.Receiver[struct{}] {
	tx, rx := oneshot.New[struct{}]()

	s.mu.Lock()
	s.releaseLocked()
	s.display = d
	s.mode = InputConfirm
	s.confirm = tx
	s.generation++
	s.mu.Unlock()

	return rx
}

// armText shows d and waits for a line of text.
func (s *UiState) armText(d Display) *oneshot.Receiver[string] {
	tx, rx := oneshot.New[string]()

	s.mu.Lock()
	s.releaseLocked()
	s.display = d
	s.mode = InputText
	s.text = tx
	s.generation++
	s.mu.Unlock()

	return rx
}

// release drops any armed input, completing its channel without a value.
func (s *UiState) release() {
	s.mu.Lock()
	if s.mode != InputNone {
		s.releaseLocked()
		s.mode = InputNone
		s.generation++
	}
	s.mu.Unlock()
}

func (s *UiState) releaseLocked() {
	if s.confirm != nil {
		_ = s.confirm.Close()
		s.confirm = nil
	}
	if s.text != nil {
		_ = s.text.Close()
		s.text = nil
	}
}
