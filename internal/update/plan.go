package update

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/scheduler"
	"github.com/sandeepkv93/keel/internal/storage"
	"github.com/sandeepkv93/keel/internal/views"
)

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Rank):
		spin := m.startBusy("planning")
		return m, tea.Batch(spin, planDayCmd(m.ctx, m.deps, m.Plan.Date))
	case key.Matches(msg, m.keys.Reload):
		return m, loadDayCmd(m.ctx, m.deps, m.Plan.Date)
	case key.Matches(msg, m.keys.Prev):
		return m.shiftDay(-1)
	case key.Matches(msg, m.keys.Next):
		return m.shiftDay(1)
	}
	return m, nil
}

func (m Model) shiftDay(delta int) (tea.Model, tea.Cmd) {
	day, err := time.Parse(model.DateLayout, m.Plan.Date)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.Plan.Date = day.AddDate(0, 0, delta).Format(model.DateLayout)
	m.Plan.Last = nil
	return m, loadDayCmd(m.ctx, m.deps, m.Plan.Date)
}

func (m Model) onDayLoaded(msg dayLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.fail(msg.Err)
		return m, nil
	}
	if msg.Date != m.Plan.Date {
		return m, nil
	}
	m.Plan.Blocks = msg.Blocks
	m.Plan.Pattern = msg.Pattern
	m.Plan.energyView = views.RenderMarkdown(views.EnergyMarkdown(msg.Pattern))
	m.armAlerts()
	return m, nil
}

// armAlerts queues alerts for the shown day's blocks. Re-arming a block
// replaces its pending alert, so reloading is safe.
func (m *Model) armAlerts() {
	if m.deps.Alerts == nil {
		return
	}
	for _, a := range scheduler.AlertsFor(m.Plan.Blocks, m.deps.Now(), m.deps.AlertLead) {
		if err := m.deps.Alerts.Arm(a); err != nil {
			m.deps.Log.WithError(err).WithField("block_id", a.BlockID).Warn("could not arm block alert")
			return
		}
	}
}

func (m Model) renderPlanView() (string, string) {
	left := views.RenderDay(m.Plan.Date, m.Plan.Blocks)
	var right []string
	if m.Plan.Last != nil {
		r := m.Plan.Last
		right = append(right, views.PlanSummary(r.Date, r.Created, r.Skipped, r.Deferred))
	} else {
		right = append(right, "press p to fill free time with pending tasks")
	}
	if m.Plan.energyView != "" {
		right = append(right, m.Plan.energyView)
	}
	return left, strings.Join(right, "\n\n")
}

func loadDayCmd(ctx context.Context, d Deps, date string) tea.Cmd {
	return func() tea.Msg {
		blocks, err := d.Repo.ListTimeBlocks(ctx, storage.TimeBlockListFilter{Date: date})
		if err != nil {
			return dayLoadedMsg{Date: date, Err: err}
		}
		pattern, err := d.Planner.EnergyPattern(ctx)
		if err != nil {
			return dayLoadedMsg{Date: date, Err: err}
		}
		return dayLoadedMsg{Date: date, Blocks: blocks, Pattern: pattern}
	}
}

func planDayCmd(ctx context.Context, d Deps, date string) tea.Cmd {
	return func() tea.Msg {
		res, err := d.Planner.PlanDay(ctx, date)
		return dayPlannedMsg{Result: res, Err: err}
	}
}
