package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/keel/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadTasksCmd(m.ctx, m.deps),
		loadDayCmd(m.ctx, m.deps, m.Plan.Date),
		waitForAlertCmd(m.deps.Alerts),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Coach.Editing {
			return m.handleEditorKey(typed)
		}

		switch {
		case key.Matches(typed, m.keys.Quit):
			m.Quitting = true
			return m, tea.Quit
		case key.Matches(typed, m.keys.Palette):
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, m.commandInput.Focus()
		case key.Matches(typed, m.keys.Help):
			m.HelpVisible = !m.HelpVisible
			m.helpModel.ShowAll = m.HelpVisible
			return m, nil
		case key.Matches(typed, m.keys.Coach):
			m.CurrentView = ViewCoach
			return m, nil
		case key.Matches(typed, m.keys.Tasks):
			m.CurrentView = ViewTasks
			return m, nil
		case key.Matches(typed, m.keys.Plan):
			m.CurrentView = ViewPlan
			return m, nil
		}

		switch m.CurrentView {
		case ViewCoach:
			return m.handleCoachKey(typed)
		case ViewTasks:
			return m.handleTasksKey(typed)
		case ViewPlan:
			return m.handlePlanKey(typed)
		}
	case spinner.TickMsg:
		if m.Busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.busySpinner, cmd = m.busySpinner.Update(typed)
		return m, cmd
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.fail(typed.Err)
		return m, nil
	case BlockAlertMsg:
		a := typed.Alert
		m.LastAlert = &a
		m.Status = StatusBar{Text: fmt.Sprintf("starting soon: %s", a.Title)}
		return m, waitForAlertCmd(m.deps.Alerts)
	case dumpProcessedMsg:
		return m.onDumpProcessed(typed)
	case tasksAddedMsg:
		m.Busy = ""
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("added %d task(s) from your dump", typed.Added)}
		return m, loadTasksCmd(m.ctx, m.deps)
	case tasksLoadedMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.Tasks.Items = typed.Tasks
		m.clampTaskCursor()
		return m, nil
	case prioritizedMsg:
		m.Busy = ""
		m.Tasks.Ranked = typed.Result.Tasks
		m.Tasks.RankSource = typed.Result.Source
		m.Tasks.rankedView = views.RenderMarkdown(views.PrioritiesMarkdown(typed.Result.Tasks, string(typed.Result.Source)))
		m.Status = StatusBar{Text: fmt.Sprintf("ranked %d task(s)", len(typed.Result.Tasks))}
		return m, nil
	case dayLoadedMsg:
		return m.onDayLoaded(typed)
	case dayPlannedMsg:
		m.Busy = ""
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		res := typed.Result
		m.Plan.Last = &res
		m.Plan.Date = res.Date
		m.Status = StatusBar{Text: fmt.Sprintf("planned %d block(s), %d unscheduled", len(res.Created), res.Unscheduled())}
		return m, loadDayCmd(m.ctx, m.deps, res.Date)
	case commandDoneMsg:
		m.Busy = ""
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.Status = StatusBar{Text: typed.Message}
		return m, tea.Batch(loadTasksCmd(m.ctx, m.deps), loadDayCmd(m.ctx, m.deps, m.Plan.Date))
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.Busy != "" {
		status = strings.TrimSpace(fmt.Sprintf("%s %s... %s", m.busySpinner.View(), m.Busy, status))
	}

	var left, right string
	switch m.CurrentView {
	case ViewCoach:
		left, right = m.renderCoachView()
	case ViewTasks:
		left, right = m.renderTasksView()
	case ViewPlan:
		left, right = m.renderPlanView()
	}

	notification := ""
	if m.Palette.Active {
		notification = m.commandInput.View()
	} else if m.LastAlert != nil {
		notification = views.RenderNotification("alert", fmt.Sprintf("%s at %s", m.LastAlert.Title, m.LastAlert.StartsAt.Format("15:04")))
	}

	names := make([]string, len(viewOrder))
	active := 0
	for i, v := range viewOrder {
		names[i] = string(v)
		if v == m.CurrentView {
			active = i
		}
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("keel | view: %s | %s", m.CurrentView, m.Plan.Date),
		Tabs:         views.RenderTabs(names, active),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Notification: notification,
		Footer:       m.helpModel.View(m.keys),
	})
}

// startBusy marks an operation as running and starts the spinner.
func (m *Model) startBusy(label string) tea.Cmd {
	m.Busy = label
	return m.busySpinner.Tick
}

func (m *Model) fail(err error) {
	m.Busy = ""
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.deps.Log.WithError(err).Debug("tui operation failed")
}

func isKnownView(v View) bool {
	for _, known := range viewOrder {
		if v == known {
			return true
		}
	}
	return false
}
