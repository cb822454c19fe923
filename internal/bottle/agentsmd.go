package bottle

import (
	"fmt"
	"strings"

	"github.com/conn-castle/bottle/internal/messages"
)

// AgentsMD prints the AGENTS.md snippet saved for the active bottle.
func (a *App) AgentsMD() error {
	current, err := a.loadActive()
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoBottleInstalled
	}
	snippet, ok, err := a.Store.LoadSnippet(current.Bottle)
	if err != nil {
		return fmt.Errorf(messages.AgentsMDLoadFmt, err)
	}
	if !ok || strings.TrimSpace(snippet) == "" {
		_, _ = fmt.Fprintf(a.errOut(), messages.AgentsMDNoSnippetFmt+"\n", current.Bottle)
		return nil
	}
	_, _ = fmt.Fprint(a.out(), strings.TrimRight(snippet, "\n")+"\n")
	return nil
}
