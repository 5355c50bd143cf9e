package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*Config
	notices []string
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 4),
	}
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	config := new(Config)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.Validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaults())
	return b
}

// withFile adds the config file layer. A file that cannot be used is noted
// and skipped.
func (b *configBuilder) withFile(path string) *configBuilder {
	fileCfg, err := parseFile(path)
	if err != nil {
		b.notices = append(b.notices, err.Error())
		return b
	}

	b.configs = append(b.configs, fileCfg)
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(f Flags) *configBuilder {
	b.configs = append(b.configs, &Config{
		RestrictedUser: f.RestrictedUser,
		Background:     f.Background,
		Command:        f.Command,
		LogLevel:       f.LogLevel,
		LogFile:        f.LogFile,
	})
	return b
}
