package update

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/storage"
	"github.com/sandeepkv93/keel/internal/views"
)

func (m Model) handleCoachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Write):
		m.Coach.Editing = true
		m.Status = StatusBar{Text: "writing, ctrl+s to analyze, esc to stop"}
		return m, m.dumpArea.Focus()
	case key.Matches(msg, m.keys.Accept):
		if m.Coach.Items == nil || len(m.Coach.Items.Items.Tasks) == 0 {
			m.Status = StatusBar{Text: "no extracted tasks to add"}
			return m, nil
		}
		spin := m.startBusy("adding tasks")
		return m, tea.Batch(spin, addExtractedTasksCmd(m.ctx, m.deps, *m.Coach.Items))
	case key.Matches(msg, m.keys.Quote):
		m.Coach.Quote = m.deps.Coach.Encouragement()
		return m, nil
	}
	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.Coach.Editing = false
		m.dumpArea.Blur()
		m.Status = StatusBar{}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		transcript := strings.TrimSpace(m.dumpArea.Value())
		if transcript == "" {
			m.Status = StatusBar{Text: "nothing to analyze yet", IsError: true}
			return m, nil
		}
		m.Coach.Editing = false
		m.dumpArea.Blur()
		spin := m.startBusy("thinking")
		return m, tea.Batch(spin, processDumpCmd(m.ctx, m.deps, transcript))
	case msg.String() == "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.dumpArea, cmd = m.dumpArea.Update(msg)
	return m, cmd
}

func (m Model) onDumpProcessed(msg dumpProcessedMsg) (tea.Model, tea.Cmd) {
	m.Busy = ""
	analysis := msg.Analysis
	items := msg.Items
	m.Coach.Analysis = &analysis
	m.Coach.Items = &items
	m.Coach.DumpID = msg.DumpID
	m.dumpArea.Reset()

	var b strings.Builder
	if banner := views.CrisisBanner(analysis.Crisis); banner != "" {
		b.WriteString(banner + "\n\n")
	}
	b.WriteString(views.RenderMarkdown(views.AnalysisMarkdown(analysis.Analysis, string(analysis.Source))))
	b.WriteString("\n\n")
	b.WriteString(views.RenderMarkdown(views.ItemsMarkdown(items.Items, string(items.Source))))
	m.output.SetContent(b.String())
	m.output.GotoTop()

	if msg.Err != nil {
		m.fail(fmt.Errorf("analysis shown but not saved: %w", msg.Err))
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("analysis ready (%s)", analysis.Source)}
	return m, nil
}

func (m Model) renderCoachView() (string, string) {
	left := m.dumpArea.View() + "\n\n" + m.Coach.Quote
	if m.Coach.Analysis == nil {
		return left, "Write a thought dump and press ctrl+s.\nAnalysis and any tasks or urges found will show here."
	}
	return left, m.output.View()
}

// processDumpCmd analyzes and extracts concurrently, then stores the dump and
// any urges. The analysis is returned even when saving fails.
func processDumpCmd(ctx context.Context, d Deps, transcript string) tea.Cmd {
	return func() tea.Msg {
		apiKey := d.APIKey()
		var (
			wg       sync.WaitGroup
			analysis coach.AnalysisResult
			items    coach.ItemsResult
		)
		wg.Go(func() { analysis = d.Coach.AnalyzeThoughts(ctx, transcript, apiKey) })
		wg.Go(func() { items = d.Coach.ExtractItems(ctx, transcript, apiKey) })
		wg.Wait()

		out := dumpProcessedMsg{Analysis: analysis, Items: items}
		out.DumpID, out.Err = saveDump(ctx, d, transcript, analysis, items)
		return out
	}
}

func saveDump(ctx context.Context, d Deps, transcript string, analysis coach.AnalysisResult, items coach.ItemsResult) (string, error) {
	now := d.Now()
	dump := model.NewThoughtDump(transcript, now)
	raw, err := json.Marshal(analysis.Analysis)
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}
	dump.AnalysisJSON = string(raw)
	dump.CrisisSeverity = string(analysis.Crisis.Severity)
	dump.Source = string(analysis.Source)
	if err := d.Repo.CreateThoughtDump(ctx, dump); err != nil {
		return "", err
	}
	for _, u := range items.Items.Urges {
		if err := d.Repo.CreateImpulseLog(ctx, model.NewImpulseLog(u.Urge, u.Intensity, u.Context, now)); err != nil {
			return dump.ID, err
		}
	}
	d.Log.WithFields(logrus.Fields{
		"dump_id":  dump.ID,
		"severity": dump.CrisisSeverity,
		"source":   dump.Source,
		"urges":    len(items.Items.Urges),
	}).Info("thought dump saved")
	return dump.ID, nil
}

// addExtractedTasksCmd stores extracted tasks, skipping titles that already
// match an active task.
func addExtractedTasksCmd(ctx context.Context, d Deps, items coach.ItemsResult) tea.Cmd {
	return func() tea.Msg {
		existing, err := d.Repo.ListTasks(ctx, storage.TaskListFilter{ActiveOnly: true})
		if err != nil {
			return tasksAddedMsg{Err: err}
		}
		seen := make(map[string]bool, len(existing))
		for _, t := range existing {
			seen[strings.ToLower(t.Title)] = true
		}
		added := 0
		for _, it := range items.Items.Tasks {
			if seen[strings.ToLower(strings.TrimSpace(it.Title))] {
				continue
			}
			task := model.NewTask(it.Title, 5, d.Now())
			task.Description = it.Description
			if err := d.Repo.CreateTask(ctx, task); err != nil {
				return tasksAddedMsg{Added: added, Err: err}
			}
			seen[strings.ToLower(task.Title)] = true
			added++
		}
		return tasksAddedMsg{Added: added}
	}
}
