package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/keel/internal/commands"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/prioritize"
	"github.com/sandeepkv93/keel/internal/storage"
	"github.com/sandeepkv93/keel/internal/views"
)

// defaultEnergy is used for ranking when nothing was logged today.
const defaultEnergy = 3

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Tasks.Cursor < len(m.Tasks.Items)-1 {
			m.Tasks.Cursor++
		}
	case key.Matches(msg, m.keys.Reload):
		return m, loadTasksCmd(m.ctx, m.deps)
	case key.Matches(msg, m.keys.Rank):
		spin := m.startBusy("prioritizing")
		return m, tea.Batch(spin, prioritizeCmd(m.ctx, m.deps, m.Tasks.Items))
	case key.Matches(msg, m.keys.Steps):
		return m.runOnSelected(commands.TypeSteps, "breaking it down")
	case key.Matches(msg, m.keys.Done):
		return m.runOnSelected(commands.TypeDone, "completing")
	}
	return m, nil
}

func (m Model) runOnSelected(t commands.Type, label string) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	cmd := commands.Command{Type: t, Raw: string(t) + " " + task.ID}
	target := &commands.TargetArgs{Target: task.ID}
	if t == commands.TypeSteps {
		cmd.Steps = target
	} else {
		cmd.Done = target
	}
	spin := m.startBusy(label)
	return m, tea.Batch(spin, executeCmd(m.handlers, cmd))
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(m.Tasks.Items) {
		return model.Task{}, false
	}
	return m.Tasks.Items[m.Tasks.Cursor], true
}

func (m *Model) clampTaskCursor() {
	if m.Tasks.Cursor >= len(m.Tasks.Items) {
		m.Tasks.Cursor = len(m.Tasks.Items) - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
}

func (m Model) renderTasksView() (string, string) {
	left := views.RenderTaskList(m.Tasks.Items, m.Tasks.Cursor)
	var right []string
	if task, ok := m.selectedTask(); ok {
		right = append(right, views.RenderTaskDetail(task))
	}
	if m.Tasks.rankedView != "" {
		right = append(right, m.Tasks.rankedView)
	} else {
		right = append(right, "press p to rank what to do next")
	}
	return left, strings.Join(right, "\n\n")
}

func loadTasksCmd(ctx context.Context, d Deps) tea.Cmd {
	return func() tea.Msg {
		tasks, err := d.Repo.ListTasks(ctx, storage.TaskListFilter{ActiveOnly: true})
		return tasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func prioritizeCmd(ctx context.Context, d Deps, tasks []model.Task) tea.Cmd {
	return func() tea.Msg {
		now := d.Now()
		pctx := prioritize.Context{
			CurrentEnergy: currentEnergy(ctx, d, now),
			TimeAvailable: d.AvailableMinutes,
			CurrentHour:   now.Hour(),
			Now:           now,
		}
		return prioritizedMsg{Result: d.Coach.Prioritize(ctx, tasks, pctx, d.APIKey())}
	}
}

// currentEnergy is the energy of the latest check-in today.
func currentEnergy(ctx context.Context, d Deps, now time.Time) int {
	y, mo, day := now.Date()
	start := time.Date(y, mo, day, 0, 0, 0, 0, now.Location())
	logs, err := d.Repo.ListMoodLogs(ctx, storage.MoodLogListFilter{Since: &start})
	if err != nil {
		d.Log.WithError(err).Warn("could not read today's check-ins")
		return defaultEnergy
	}
	if len(logs) == 0 {
		return defaultEnergy
	}
	return logs[len(logs)-1].Energy
}

func executeCmd(h commands.Handlers, cmd commands.Command) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.Execute(cmd, h)
		if err != nil {
			return commandDoneMsg{Type: cmd.Type, Err: fmt.Errorf("%s: %w", cmd.Type, err)}
		}
		return commandDoneMsg{Type: cmd.Type, Message: res.Message}
	}
}
