package envfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := strings.Join([]string{
		"# secrets for bottle MCP servers",
		"",
		"SEARCH_KEY=abc123",
		"export REGION = us-east-1",
		`QUOTED="line1\nline2 \"x\"" # trailing comment`,
		`LITERAL='a\nb'`,
		"INLINE=value # comment",
		"EMPTY=",
	}, "\n")

	env, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SEARCH_KEY": "abc123",
		"REGION":     "us-east-1",
		"QUOTED":     "line1\nline2 \"x\"",
		"LITERAL":    `a\nb`,
		"INLINE":     "value",
		"EMPTY":      "",
	}, env)
}

func TestParseEmpty(t *testing.T) {
	env, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing equals":      "JUSTAKEY",
		"empty key":           "=value",
		"unterminated":        `KEY="open`,
		"unterminated single": `KEY='open`,
		"junk after quote":    `KEY="v" junk`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("OK=1\n" + content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParseOverlongLine(t *testing.T) {
	_, err := Parse("KEY=" + strings.Repeat("x", 70*1024))
	require.Error(t, err)
}

func TestLookupPrefersProcessEnv(t *testing.T) {
	lookup := Lookup(map[string]string{"A": "file", "B": "file"}, func(name string) (string, bool) {
		if name == "A" {
			return "process", true
		}
		return "", false
	})

	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "process", v)
	v, ok = lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "file", v)
	_, ok = lookup("C")
	assert.False(t, ok)

	v, ok = Lookup(map[string]string{"A": "file"}, nil)("A")
	assert.True(t, ok)
	assert.Equal(t, "file", v)
}
