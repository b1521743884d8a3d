// Package config loads and merges ctxwhisper settings. A global config at
// ~/.config/ctxwhisper/config.json holds the user's backend and language
// choices; a project-local .ctxwhisperrc can override any of them. The API
// key never lives in a file — it comes from the environment.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable ctxwhisper settings.
type Config struct {
	Provider    string  `json:"provider"` // "openai" | "deepseek" | "ollama" | any compatible
	Model       string  `json:"model"`
	BaseURL     string  `json:"base_url"` // override the provider default endpoint
	Language    string  `json:"language"` // "en" | "th"
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Timeout     int     `json:"timeout_seconds"`
	ExportDir   string  `json:"export_dir"` // where `export` writes summary files
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Language:    "en",
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     120,
		ExportDir:   ".",
	}
}

// APIKey returns the backend API key from the environment.
// CTXWHISPER_API_KEY wins over OPENAI_API_KEY.
func APIKey() string {
	if key := os.Getenv("CTXWHISPER_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ctxwhisper", "config.json"), nil
}

// Exists reports whether the global config file is present on disk.
func Exists() bool {
	path, err := GlobalPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// LoadGlobal reads ~/.config/ctxwhisper/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .ctxwhisperrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".ctxwhisperrc", false)
}

// SaveGlobal writes cfg to the global config file, creating the config
// directory if needed.
func SaveGlobal(cfg *Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

// apply overlays the non-zero fields of src onto dst.
func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.Timeout > 0 {
		dst.Timeout = src.Timeout
	}
	if src.ExportDir != "" {
		dst.ExportDir = src.ExportDir
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
