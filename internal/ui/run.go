package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/greetd"
	"github.com/muurk/cliffcrown/internal/greeter"
	"github.com/muurk/cliffcrown/internal/logging"
)

// ErrAborted is returned by Run when the user quits before logging in.
var ErrAborted = errors.New("login aborted")

// Options configure Run.
type Options struct {
	Settings    greeter.Settings
	Environment []string
	// Background is a "#rrggbb" color. Image paths cannot be shown on a
	// terminal and are ignored.
	Background string
	// ProgramOptions are appended to the Bubble Tea defaults. Tests use
	// them to replace the terminal.
	ProgramOptions []tea.ProgramOption
}

// Run shows the login screen on client until a session is started, the
// user quits, or an attempt fails in a way that cannot be retried. Failed
// logins are shown, acknowledged and retried on the same connection.
func Run(ctx context.Context, client *greetd.Client, opts Options) error {
	if opts.Background != "" && !strings.HasPrefix(opts.Background, "#") {
		logging.Warn("Image backgrounds are not supported on a terminal",
			zap.String("background", opts.Background),
		)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := greeter.NewUiState()
	model := NewModel(state, title(), opts.Background)

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(model, programOpts...)
	repainter := greeter.RepaintFunc(func() { p.Send(repaintMsg{}) })

	result := make(chan error, 1)
	go func() {
		err := attempts(ctx, client, state, opts, repainter)
		p.Send(attemptDoneMsg{err: err})
		result <- err
	}()

	final, runErr := p.Run()
	cancel()
	err := <-result

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("login screen failed: %w", runErr)
	}
	if fm, ok := final.(Model); ok && !fm.finished {
		return ErrAborted
	}
	return err
}

// attempts drives login attempts until one succeeds or fails for good.
func attempts(ctx context.Context, client *greetd.Client, state *greeter.UiState, opts Options, repainter greeter.Repainter) error {
	for n := 1; ; n++ {
		usernames, driver := greetd.NewClientManager(client, greetd.WithEnvironment(opts.Environment))
		bridge := greeter.NewUiManager(state, opts.Settings, usernames, repainter)

		err := greeter.Login(ctx, driver, bridge)
		if err == nil {
			return nil
		}

		recovered := driver.Recovered()
		if !greetd.IsRetryable(err) || ctx.Err() != nil || recovered == nil {
			if recovered != nil {
				_ = recovered.Close()
			}
			return err
		}

		logging.Info("Retrying login", zap.Int("attempt", n+1), zap.Error(err))
		client = recovered
	}
}

func title() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "cliffcrown"
	}
	return host
}
