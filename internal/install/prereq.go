package install

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
)

// prerequisiteHints describe how to obtain the prerequisites bottles commonly declare.
var prerequisiteHints = map[string]string{
	"cargo": messages.InstallPrereqCargoHint,
	"node":  messages.InstallPrereqNodeHint,
}

// MissingPrerequisites returns a description of every prerequisite m
// declares that is not on PATH, sorted by name.
func (e Env) MissingPrerequisites(m *manifest.Manifest) []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Prerequisites))
	for name := range m.Prerequisites {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	for _, name := range names {
		if e.Available(name) {
			continue
		}
		hint := prerequisiteHints[name]
		if hint == "" {
			hint = strings.TrimSpace(m.Prerequisites[name])
		}
		if hint == "" {
			missing = append(missing, name)
			continue
		}
		missing = append(missing, fmt.Sprintf(messages.InstallPrereqMissingFmt, name, hint))
	}
	return missing
}

// CheckPrerequisites fails with ErrPrerequisitesNotMet when any declared prerequisite is missing.
func (e Env) CheckPrerequisites(m *manifest.Manifest) error {
	missing := e.MissingPrerequisites(m)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPrerequisitesNotMet, strings.Join(missing, ", "))
}
