// Package config resolves the greeter configuration.
//
// Values come from four layers, each overriding the ones before it when set:
//
//  1. Built-in defaults (command "bash")
//  2. The config file, /etc/greetd/cliffcrown.toml unless -C/--config says
//     otherwise. Files ending in .yaml or .yml are read as YAML.
//  3. Environment variables (GREETD_SOCK, CLIFFCROWN_USER, CLIFFCROWN_COMMAND,
//     CLIFFCROWN_BACKGROUND, CLIFFCROWN_LOG_LEVEL, CLIFFCROWN_LOG_FILE)
//  4. Command-line flags, with trailing arguments taken as the command
//
// A missing or malformed config file is not an error: the greeter must still
// come up on a fresh install. Load reports such problems as notices.
//
// # Config File
//
//	restricted_user = "alice"
//	command = ["sway", "--unsupported-gpu"]
//	environment = ["XDG_SESSION_TYPE=wayland"]
//	background = "#1e1e2e"
//	log_level = "info"
//	log_file = "/var/log/cliffcrown.log"
//
// # Usage Example
//
//	cfg, notices, err := config.Load(config.Flags{ConfigPath: path})
//	if err != nil {
//	    return err
//	}
//	for _, n := range notices {
//	    logging.Warn("Config file skipped", zap.String("reason", n))
//	}
package config
