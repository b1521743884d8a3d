package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunSetup runs the interactive setup wizard and returns the resulting
// config. If existing is non-nil, it is used as the default for each prompt
// (edit mode).
func RunSetup(existing *Config) (*Config, error) {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = *existing
	}

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────────┐")
	fmt.Println("  │   ctxwhisper — first-time setup     │")
	fmt.Println("  └─────────────────────────────────────┘")
	fmt.Println()

	var err error

	cfg.Provider, err = ask("  Backend provider (openai/deepseek/ollama)", cfg.Provider)
	if err != nil {
		return nil, err
	}

	cfg.Model, err = ask("  Model", defaultModelFor(cfg.Provider, cfg.Model))
	if err != nil {
		return nil, err
	}

	cfg.BaseURL, err = ask("  Base URL (empty for provider default)", cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	lang, err := ask("  Summary language (en/th)", cfg.Language)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(lang, "th") {
		cfg.Language = "th"
	} else {
		cfg.Language = "en"
	}

	cfg.ExportDir, err = ask("  Export directory for summary files", cfg.ExportDir)
	if err != nil {
		return nil, err
	}

	if APIKey() == "" && cfg.Provider != "ollama" {
		fmt.Println()
		fmt.Println("  Note: no API key found. Set CTXWHISPER_API_KEY (or OPENAI_API_KEY)")
		fmt.Println("  in your shell before running an analysis.")
	}

	fmt.Println()
	return &cfg, nil
}

// defaultModelFor suggests a model when the provider changed and the current
// model still matches another provider's default.
func defaultModelFor(provider, current string) string {
	defaults := map[string]string{
		"openai":   "gpt-4o-mini",
		"deepseek": "deepseek-chat",
		"ollama":   "llama3.1",
	}
	suggested, ok := defaults[provider]
	if !ok {
		return current
	}
	for p, m := range defaults {
		if p != provider && m == current {
			return suggested
		}
	}
	if current == "" {
		return suggested
	}
	return current
}
