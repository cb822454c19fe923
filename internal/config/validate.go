package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate(path string) error {
	if raw := strings.TrimSpace(c.ManifestBaseURL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf(messages.ConfigInvalidBaseURLFmt, path, raw)
		}
	}
	for _, method := range c.PreferredMethods() {
		if !method.Valid() {
			return fmt.Errorf(messages.ConfigInvalidPreferFmt, path, method)
		}
	}
	if strings.ContainsAny(c.ClaudeCommand, " \t") {
		return fmt.Errorf(messages.ConfigInvalidClaudeCommandFmt, path, c.ClaudeCommand)
	}
	return nil
}
