// Cliffcrown is a terminal greeter for greetd.
//
// It runs on the virtual terminal greetd gives it, asks for a username and
// whatever PAM wants to know, and starts the configured session once
// authentication succeeds. Failed logins are shown and retried on the same
// greetd connection.
//
// Usage:
//
//	cliffcrown [flags] [command...]
//
// A trailing command overrides the configured session command.
// See 'cliffcrown --help' for available flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/cliffcrown/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cliffcrown [flags] [command...]",
	Short: "Terminal greeter for greetd",
	Long: `A terminal greeter for the greetd login manager.

Cliffcrown talks to greetd over the socket named by GREETD_SOCK. It is meant
to be started by greetd itself, for example:

  [default_session]
  command = "cliffcrown --config /etc/greetd/cliffcrown.toml"

Settings are read from the config file, then CLIFFCROWN_* environment
variables, then flags.`,
	Example: `  # Log in as anyone and start bash
  cliffcrown

  # Only allow alice, start sway
  cliffcrown -u alice sway

  # Debug logging to a file
  cliffcrown --log-level debug --log-file /tmp/cliffcrown.log`,
	Version:      version.Get().Version,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runGreeter,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Everything after the first positional argument belongs to the command.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
