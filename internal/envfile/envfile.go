// Package envfile parses the KEY=VALUE files bottle reads secrets from.
package envfile

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

// Parse reads .env content into a key-value map.
// Blank lines, # comments and an optional "export " prefix are accepted.
// Values may be bare, 'single quoted' (literal) or "double quoted" (with \n \r \t \" \\ escapes).
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if ok {
			env[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

// Lookup returns a resolver that prefers the process environment and falls back to env.
func Lookup(env map[string]string, lookupEnv func(string) (string, bool)) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if lookupEnv != nil {
			if value, ok := lookupEnv(name); ok {
				return value, true
			}
		}
		value, ok := env[name]
		return value, ok
	}
}

// parseLine returns the key and value on line, ok=false for blank and comment lines.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	key, raw, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false, fmt.Errorf(messages.EnvfileExpectedKeyValue)
	}
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, `"`):
		value, rest, err := cutDoubleQuoted(raw)
		if err != nil {
			return "", "", false, err
		}
		return key, value, true, checkSuffix(rest)
	case strings.HasPrefix(raw, `'`):
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", "", false, fmt.Errorf(messages.EnvfileUnterminatedQuotedValue)
		}
		return key, raw[1 : end+1], true, checkSuffix(raw[end+2:])
	default:
		if idx := strings.Index(raw, " #"); idx >= 0 {
			raw = strings.TrimSpace(raw[:idx])
		}
		return key, raw, true, nil
	}
}

// cutDoubleQuoted decodes a leading double-quoted value and returns what follows it.
func cutDoubleQuoted(raw string) (string, string, error) {
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if c == '"' {
			return b.String(), raw[i+1:], nil
		}
		if c == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(raw[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(raw[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return "", "", fmt.Errorf(messages.EnvfileUnterminatedQuotedValue)
}

// checkSuffix allows only whitespace or a comment after a quoted value.
func checkSuffix(rest string) error {
	rest = strings.TrimSpace(rest)
	if rest == "" || strings.HasPrefix(rest, "#") {
		return nil
	}
	return fmt.Errorf(messages.EnvfileInvalidQuotedSuffix)
}
