package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads the TOML file at path on top of NewDefaultConfig, applies the
// environment secret overrides and validates the result. An empty path
// yields the validated defaults.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := NewDefaultConfig()
	defaultSecret := cfg.Jwt.AuthSecret

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logger.Warn("config: unknown keys ignored", "path", path, "keys", fmt.Sprint(undecoded))
		}
		cfg.Source = path
		logger.Info("config: loaded from file", "path", path)
	} else {
		logger.Info("config: no file given, using defaults")
	}

	applyEnv(cfg)

	if cfg.Jwt.AuthSecret == defaultSecret {
		cfg.Jwt.generatedSecret = true
		logger.Warn("config: no jwt secret configured, using a random one; sessions end on restart")
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Reload loads the file current was loaded from. A random JWT secret of
// current survives when the file still sets none, so reloading does not
// end every session.
func Reload(current *Config, logger *slog.Logger) (*Config, error) {
	if current.Source == "" {
		return nil, fmt.Errorf("config: not loaded from a file, nothing to reload")
	}
	cfg, err := Load(current.Source, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Jwt.generatedSecret && current.Jwt.generatedSecret {
		cfg.Jwt.AuthSecret = current.Jwt.AuthSecret
	}
	return cfg, nil
}

// applyEnv overrides secrets with non-empty environment values.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvJwtSecret); v != "" {
		cfg.Jwt.AuthSecret = v
	}
	if v := os.Getenv(EnvSmtpPassword); v != "" {
		cfg.Smtp.Password = v
	}
	if v := os.Getenv(EnvS3SecretKey); v != "" {
		cfg.Avatar.S3.SecretKey = v
	}
	if v := os.Getenv(EnvDiscordHook); v != "" {
		cfg.Notifier.Discord.WebhookURL = v
	}
}

// Encode writes cfg as TOML, used by the binary to dump the effective config.
func Encode(cfg *Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}
