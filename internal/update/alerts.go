package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/keel/internal/scheduler"
)

// waitForAlertCmd blocks until the engine emits the next alert. It returns
// nil when there is no engine or its channel is closed.
func waitForAlertCmd(engine *scheduler.AlertEngine) tea.Cmd {
	if engine == nil {
		return nil
	}
	ch := engine.C()
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return BlockAlertMsg{Alert: a}
	}
}
