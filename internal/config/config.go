package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where greetd installs keep greeter configuration.
const DefaultPath = "/etc/greetd/cliffcrown.toml"

// DefaultCommand is started when no command is configured.
var DefaultCommand = []string{"bash"}

// Config is the resolved greeter configuration.
type Config struct {
	// RestrictedUser, when set, is the only user that can log in and the
	// username prompt is skipped.
	RestrictedUser string `toml:"restricted_user,omitempty" yaml:"restricted_user,omitempty" env:"CLIFFCROWN_USER"`
	// Command is the session started after a successful login.
	Command []string `toml:"command" yaml:"command,flow" env:"CLIFFCROWN_COMMAND" envSeparator:" "`
	// Environment holds extra KEY=value entries for the session.
	Environment []string `toml:"environment,omitempty" yaml:"environment,omitempty"`
	// Background is a "#rrggbb" color for the login screen. Image paths are
	// accepted but cannot be drawn on a terminal.
	Background string `toml:"background,omitempty" yaml:"background,omitempty" env:"CLIFFCROWN_BACKGROUND"`
	// Socket is the greetd socket path. Only greetd sets it.
	Socket string `toml:"-" yaml:"-" env:"GREETD_SOCK"`

	LogLevel string `toml:"log_level,omitempty" yaml:"log_level,omitempty" env:"CLIFFCROWN_LOG_LEVEL"`
	LogFile  string `toml:"log_file,omitempty" yaml:"log_file,omitempty" env:"CLIFFCROWN_LOG_FILE"`
}

// Flags carries command-line values. Empty fields do not override.
type Flags struct {
	ConfigPath     string
	RestrictedUser string
	Background     string
	Command        []string
	LogLevel       string
	LogFile        string
}

func defaults() *Config {
	return &Config{
		Command: append([]string(nil), DefaultCommand...),
	}
}

// Load resolves the configuration from defaults, the config file, the
// environment and flags, later layers winning. Problems with the config file
// are not fatal; they come back as notices for the caller to log.
func Load(flags Flags) (*Config, []string, error) {
	path := flags.ConfigPath
	if path == "" {
		path = DefaultPath
	}

	b := newConfigBuilder().
		withDefaults().
		withFile(path).
		withEnv().
		withFlags(flags)

	cfg, err := b.build()
	return cfg, b.notices, err
}

// Validate checks that the configuration can start a session.
func (c *Config) Validate() error {
	if len(c.Command) == 0 {
		return fmt.Errorf("%w: command is empty", ErrInvalidCommand)
	}
	if strings.TrimSpace(c.Command[0]) == "" {
		return fmt.Errorf("%w: program name is blank", ErrInvalidCommand)
	}
	for _, kv := range c.Environment {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("%w: %q is not KEY=value", ErrInvalidEnvironment, kv)
		}
	}
	return nil
}

// WriteTOML writes c in config file format.
func (c *Config) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
