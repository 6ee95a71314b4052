package gemkit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk client configuration. It never holds the API
// key itself; APIKeyEnv names the environment variable to read it from.
type FileConfig struct {
	APIKeyEnv string            `yaml:"api_key_env"`
	BaseURL   string            `yaml:"base_url,omitempty"`
	Model     string            `yaml:"model,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// DefaultAPIKeyEnv is the environment variable consulted when a config
// file does not name one.
const DefaultAPIKeyEnv = "GEMINI_API_KEY"

// DefaultConfigPath returns the default configuration file path for the
// current platform.
//   - macOS/Linux: ~/.gemkit/config.yaml
//   - Windows: %USERPROFILE%\.gemkit\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".gemkit", "config.yaml")
}

// LoadFileConfig loads configuration from the specified path.
// If the file doesn't exist, returns a default config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{APIKeyEnv: DefaultAPIKeyEnv}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing config file is not an error
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}

	return cfg, nil
}

// Options converts the file config into client options, skipping fields
// left empty.
func (c *FileConfig) Options() []Option {
	var opts []Option
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	if c.Model != "" {
		opts = append(opts, WithModel(c.Model))
	}
	for key, value := range c.Headers {
		opts = append(opts, WithHeader(key, value))
	}
	return opts
}

// NewFromConfigFile builds a client from a config file, reading the API
// key from the environment variable the file names. Extra options are
// applied after the file's and take precedence.
func NewFromConfigFile(path string, extra ...Option) (*Client, error) {
	cfg, err := LoadFileConfig(path)
	if err != nil {
		return nil, err
	}
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: environment variable %s is not set", ErrUnauthorized, cfg.APIKeyEnv)
	}
	opts := append(cfg.Options(), extra...)
	return New(apiKey, opts...), nil
}
