package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Default endpoints and timeouts. The backend URL points at the hosted
// portfolio API; override it in config.toml or HONDACHAT_BACKEND_URL
// for local development.
const (
	DefaultBackendURL     = "https://api.justfish.dev"
	DefaultRequestTimeout = 5 * time.Second
	DefaultRelayAddr      = ":8700"
)

type Config struct {
	BackendURL     string
	RequestTimeout time.Duration
	RelayAddr      string
	Mail           MailConfig
}

// MailConfig holds the SMTP settings for the contact-form relay.
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Recipient string
}

type tomlConfig struct {
	BackendURL     string `toml:"backend_url"`
	RequestTimeout string `toml:"request_timeout"`
	RelayAddr      string `toml:"relay_addr"`
	Mail           struct {
		Host      string `toml:"host"`
		Port      int    `toml:"port"`
		User      string `toml:"user"`
		Password  string `toml:"password"`
		Recipient string `toml:"recipient"`
	} `toml:"mail"`
}

// Dir returns the config directory, ~/.config/hondachat.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "hondachat")
}

// DefaultDBPath returns where the state database lives by default.
func DefaultDBPath() string {
	return filepath.Join(Dir(), "chats.db")
}

// Load reads config from ~/.config/hondachat/config.toml, falling back
// to defaults for anything absent. Environment variables override the
// file: HONDACHAT_BACKEND_URL and HONDACHAT_SMTP_PASSWORD.
func Load() (*Config, error) {
	return loadFrom(filepath.Join(Dir(), "config.toml"))
}

func loadFrom(tomlPath string) (*Config, error) {
	cfg := &Config{
		BackendURL:     DefaultBackendURL,
		RequestTimeout: DefaultRequestTimeout,
		RelayAddr:      DefaultRelayAddr,
		Mail:           MailConfig{Port: 587},
	}

	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.BackendURL != "" {
				cfg.BackendURL = tc.BackendURL
			}
			if tc.RequestTimeout != "" {
				if d, err := time.ParseDuration(tc.RequestTimeout); err == nil {
					cfg.RequestTimeout = d
				}
			}
			if tc.RelayAddr != "" {
				cfg.RelayAddr = tc.RelayAddr
			}
			if tc.Mail.Host != "" {
				cfg.Mail.Host = tc.Mail.Host
			}
			if tc.Mail.Port != 0 {
				cfg.Mail.Port = tc.Mail.Port
			}
			cfg.Mail.User = tc.Mail.User
			cfg.Mail.Password = tc.Mail.Password
			cfg.Mail.Recipient = tc.Mail.Recipient
		}
	}

	if url := os.Getenv("HONDACHAT_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if pw := os.Getenv("HONDACHAT_SMTP_PASSWORD"); pw != "" {
		cfg.Mail.Password = pw
	}

	return cfg, nil
}
