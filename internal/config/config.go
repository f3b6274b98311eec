// Package config resolves the API key and backend settings from flags,
// environment variables and a secrets.toml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/csheth/readease/internal/llm"
)

const (
	// APIKeyEnv is the variable and secrets.toml key holding the API key.
	APIKeyEnv = "GEMINI_API_KEY"
	envPrefix = "READEASE"

	KeyProvider = "provider"
	KeyModel    = "model"
	KeyEndpoint = "endpoint"
	KeySecrets  = "secrets"
	keyAPIKey   = "gemini_api_key"
)

// ErrMissingAPIKey stops the program before any UI is shown.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " not found in environment or secrets file")

// Remediation explains how to supply the key.
const Remediation = `To fix this:
  1. Create a file named .readease/secrets.toml in your project folder
     (.streamlit/secrets.toml is also read).
  2. Add this inside:

       [general]
       GEMINI_API_KEY = "your_api_key_here"

  Or export GEMINI_API_KEY in your shell.`

// DefaultSecretsPaths are searched in order when no --secrets flag is given.
var DefaultSecretsPaths = []string{
	filepath.Join(".readease", "secrets.toml"),
	filepath.Join(".streamlit", "secrets.toml"),
}

// Config is the resolved runtime configuration.
type Config struct {
	Provider    llm.Provider
	APIKey      string
	Model       string
	Endpoint    string
	SecretsPath string
}

// New returns a viper instance wired to READEASE_* variables and GEMINI_API_KEY.
// Callers bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyAPIKey, APIKeyEnv)
	return v
}

// Load reads the secrets file (if any) and resolves the configuration.
func Load(v *viper.Viper) (Config, error) {
	secretsPath, err := readSecrets(v)
	if err != nil {
		return Config{}, err
	}

	provider, err := llm.ParseProvider(v.GetString(KeyProvider))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Provider:    provider,
		APIKey:      strings.TrimSpace(lookupAPIKey(v)),
		Model:       strings.TrimSpace(v.GetString(KeyModel)),
		Endpoint:    strings.TrimSpace(v.GetString(KeyEndpoint)),
		SecretsPath: secretsPath,
	}
	if provider.RequiresAPIKey() && cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

// LLMConfig converts the resolved settings for llm.New.
func (c Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		Model:    c.Model,
		Endpoint: c.Endpoint,
	}
}

func readSecrets(v *viper.Viper) (string, error) {
	explicit := strings.TrimSpace(v.GetString(KeySecrets))
	candidates := DefaultSecretsPaths
	if explicit != "" {
		candidates = []string{explicit}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if explicit != "" {
				return "", fmt.Errorf("secrets file %s: %w", path, err)
			}
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.MergeInConfig(); err != nil {
			return "", fmt.Errorf("read secrets file %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

func lookupAPIKey(v *viper.Viper) string {
	if key := v.GetString(keyAPIKey); key != "" {
		return key
	}
	return v.GetString("general." + keyAPIKey)
}
