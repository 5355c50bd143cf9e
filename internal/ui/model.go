package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/cliffcrown/internal/greeter"
)

// ConfirmHint is shown whenever the greeter waits for an acknowledgement.
const ConfirmHint = "press <Enter> to continue"

// repaintMsg asks the model to pick up a change in the shared state.
type repaintMsg struct{}

// attemptDoneMsg ends the program with the login result.
type attemptDoneMsg struct {
	err error
}

// Model is the login screen. It draws greeter.UiState and reports key
// presses back to it; it never talks to greetd itself.
type Model struct {
	state *greeter.UiState
	title string

	input     textinput.Model
	spinner   spinner.Model
	indicator Indicator
	keys      keyMap
	help      help.Model

	// textArmed is set while the input field belongs to the current text
	// request, so a new request starts from an empty field.
	textArmed bool

	background string
	width      int
	height     int
	done       bool
	finished   bool // the login attempt ended, as opposed to the user quitting
}

// NewModel creates the login screen for state. title is shown above the box.
func NewModel(state *greeter.UiState, title, background string) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 0 // answers go to PAM untouched
	ti.Width = BoxWidth - 10

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	width, height := GetTerminalSize()

	return Model{
		state:      state,
		title:      title,
		input:      ti,
		spinner:    s,
		indicator:  NewIndicator(DefaultSegments),
		keys:       newKeyMap(),
		help:       help.New(),
		background: background,
		width:      width,
		height:     height,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case repaintMsg:
		m = m.sync(m.state.Snapshot())
		return m, nil

	case attemptDoneMsg:
		m.done = true
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.done = true
		return m, tea.Quit
	}

	snap := m.state.Snapshot()
	m = m.sync(snap)

	switch snap.Mode {
	case greeter.InputConfirm:
		if key.Matches(msg, m.keys.Submit) {
			m.state.Confirm()
		}
		return m, nil

	case greeter.InputText:
		if key.Matches(msg, m.keys.Submit) {
			value := m.input.Value()
			m.input.Reset()
			m.indicator = m.indicator.Reset()
			m.textArmed = false
			m.state.SubmitText(value)
			return m, nil
		}

		before := utf8.RuneCountInString(m.input.Value())
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		after := utf8.RuneCountInString(m.input.Value())

		if snap.Display.Input == greeter.HiddenInput {
			switch {
			case after > before:
				m.indicator = m.indicator.Add()
			case after < before:
				m.indicator = m.indicator.Delete()
			}
		}
		return m, cmd
	}

	return m, nil
}

// sync prepares the input field for the current input mode.
func (m Model) sync(snap greeter.Snapshot) Model {
	if snap.Mode != greeter.InputText {
		if m.textArmed {
			m.input.Blur()
			m.input.Reset()
			m.textArmed = false
		}
		return m
	}
	if m.textArmed {
		return m
	}

	m.input.Reset()
	if snap.Display.Input == greeter.HiddenInput {
		m.input.EchoMode = textinput.EchoNone
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.Focus()
	m.indicator = m.indicator.Reset()
	m.textArmed = true
	return m
}

// View implements tea.Model
func (m Model) View() string {
	if m.done {
		return ""
	}

	snap := m.state.Snapshot()
	var body []string

	switch snap.Display.Kind {
	case greeter.DisplayMessage:
		body = append(body, MessageStyle.Render(snap.Display.Message))
		switch snap.Display.Input {
		case greeter.ShownInput:
			body = append(body, "", m.input.View())
		case greeter.HiddenInput:
			body = append(body, "", m.indicator.View())
		}

	case greeter.DisplayLoading:
		body = append(body, m.spinner.View()+" authenticating")
	}

	if snap.Mode == greeter.InputConfirm {
		if len(body) > 0 {
			body = append(body, "")
		}
		body = append(body, HintStyle.Render(ConfirmHint))
	}

	box := BoxStyle(BoxWidth).Render(lipgloss.JoinVertical(lipgloss.Center, body...))
	content := lipgloss.JoinVertical(lipgloss.Center,
		TitleStyle.Render(m.title),
		box,
		HelpStyle.Render(m.help.View(m.keys)),
	)

	var opts []lipgloss.WhitespaceOption
	if strings.HasPrefix(m.background, "#") {
		opts = append(opts, lipgloss.WithWhitespaceBackground(lipgloss.Color(m.background)))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content, opts...)
}
