package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/bottle/internal/messages"
)

var homeDirFunc = homedir.Dir

// Paths holds resolved locations under the bottle home directory.
type Paths struct {
	Home        string
	ConfigPath  string
	EnvPath     string
	HistoryPath string
	BinDir      string
	BottlesDir  string
}

// DefaultPaths returns the standard layout rooted at home.
func DefaultPaths(home string) Paths {
	return Paths{
		Home:        home,
		ConfigPath:  filepath.Join(home, "config.toml"),
		EnvPath:     filepath.Join(home, ".env"),
		HistoryPath: filepath.Join(home, "history.db"),
		BinDir:      filepath.Join(home, "bin"),
		BottlesDir:  filepath.Join(home, "bottles"),
	}
}

// HomeDir returns $BOTTLE_HOME when set, otherwise ~/.bottle.
func HomeDir(getenv func(string) string) (string, error) {
	if override := strings.TrimSpace(getenv(EnvHome)); override != "" {
		expanded, err := homedir.Expand(override)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
		}
		return expanded, nil
	}
	home, err := homeDirFunc()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return filepath.Join(home, ".bottle"), nil
}

// UserHomeDir returns the user's home directory.
func UserHomeDir() (string, error) {
	home, err := homeDirFunc()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveHomeFmt, err)
	}
	return home, nil
}
