package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/keel/internal/cognitive"
	"github.com/sandeepkv93/keel/internal/crisis"
	"github.com/sandeepkv93/keel/internal/energy"
	"github.com/sandeepkv93/keel/internal/extract"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/prioritize"
	"github.com/sandeepkv93/keel/internal/scheduler"
)

var (
	crisisStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
)

// CrisisBanner is shown above everything else whenever the detector fires.
func CrisisBanner(c crisis.Result) string {
	if !c.IsCrisis {
		return ""
	}
	lines := []string{"You don't have to go through this alone."}
	lines = append(lines, crisis.Resources(c.Severity)...)
	return crisisStyle.Render(strings.Join(lines, "\n"))
}

// AnalysisMarkdown formats a cognitive analysis for glamour. source is "ai"
// or "basic" and is shown as a small badge.
func AnalysisMarkdown(a cognitive.Analysis, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Thought check `%s`\n\n", source)
	b.WriteString(a.OverallAssessment + "\n\n")
	if len(a.Distortions) > 0 {
		b.WriteString("### Patterns spotted\n\n")
		for _, d := range a.Distortions {
			fmt.Fprintf(&b, "- **%s**: \"%s\"\n  %s\n", d.Type, d.Quote, d.Explanation)
		}
		b.WriteString("\n")
	}
	writeList(&b, "Reality checks", a.RealityChecks)
	writeList(&b, "Reframes", a.Reframes)
	if adv := a.CoachAdvice; adv != nil {
		b.WriteString("### Coach\n\n")
		fmt.Fprintf(&b, "**Right now:** %s\n\n", adv.ImmediateAction)
		for i, s := range adv.ShortTermSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
		if len(adv.ShortTermSteps) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**Coping strategy:** %s\n\n", adv.CopingStrategy)
		fmt.Fprintf(&b, "> %s\n", adv.Affirmation)
	}
	return b.String()
}

func ItemsMarkdown(items extract.Items, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Pulled from your brain dump `%s`\n\n", source)
	if len(items.Tasks) == 0 && len(items.Urges) == 0 {
		b.WriteString("_Nothing actionable found._\n")
		return b.String()
	}
	if len(items.Tasks) > 0 {
		b.WriteString("### Tasks\n\n")
		for _, t := range items.Tasks {
			fmt.Fprintf(&b, "- [%s] %s\n", t.Priority, t.Title)
		}
		b.WriteString("\n")
	}
	if len(items.Urges) > 0 {
		b.WriteString("### Urges noticed\n\n")
		for _, u := range items.Urges {
			fmt.Fprintf(&b, "- %s (intensity %d/10)\n", u.Urge, u.Intensity)
		}
	}
	return b.String()
}

func PrioritiesMarkdown(ranked []prioritize.PrioritizedTask, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## What next `%s`\n\n", source)
	if len(ranked) == 0 {
		b.WriteString("_No open tasks._\n")
		return b.String()
	}
	b.WriteString("| Score | Task | Action | Why |\n|---:|---|---|---|\n")
	for _, p := range ranked {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", p.Score, escapeCell(p.Title), p.SuggestedAction, escapeCell(p.Reasoning))
	}
	return b.String()
}

// PlanSummary is plain text so it reads well both in the TUI and on stdout.
func PlanSummary(date string, created []model.TimeBlock, skipped []scheduler.Skipped, deferred int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan for %s:\n", date)
	if len(created) == 0 {
		b.WriteString("  no new blocks\n")
	}
	for _, blk := range created {
		fmt.Fprintf(&b, "  %s-%s %s\n", blk.StartTime, blk.EndTime, blk.Title)
	}
	for _, s := range skipped {
		fmt.Fprintf(&b, "  could not fit: %s\n", s.Title)
	}
	if deferred > 0 {
		fmt.Fprintf(&b, "  %d more task(s) left for another run\n", deferred)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderTaskList lists tasks with a resistance swatch and step progress.
func RenderTaskList(tasks []model.Task, selected int) string {
	if len(tasks) == 0 {
		return dimStyle.Render("(no tasks, use /add <title>)")
	}
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if i == selected {
			cursor = ">"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(scheduler.ColorFor(t.Resistance))).Render("●")
		title := t.Title
		if !t.Status.IsActive() {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s %s %s %s", cursor, swatch, dimStyle.Render(shortID(t.ID)), title)
		if len(t.Steps) > 0 {
			fmt.Fprintf(&b, " %s", dimStyle.Render(fmt.Sprintf("%d%%", int(t.Progress()*100))))
		}
		if t.Deadline != nil {
			fmt.Fprintf(&b, " %s", dimStyle.Render("due "+t.Deadline.Format(model.DateLayout)))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderTaskDetail shows a task's steps.
func RenderTaskDetail(t model.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nresistance %d/10 | ~%d min | %s\n", t.Title, t.Resistance, t.Minutes(), t.Status)
	if t.Description != "" {
		b.WriteString(t.Description + "\n")
	}
	if len(t.Steps) == 0 {
		b.WriteString(dimStyle.Render("no steps yet, try /steps " + shortID(t.ID)))
		return b.String()
	}
	for _, s := range t.Steps {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s %s (%dm)\n", box, s.Text, s.EstimatedMinutes)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderDay draws the day's blocks in time order with their colour.
func RenderDay(date string, blocks []model.TimeBlock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", date)
	if len(blocks) == 0 {
		b.WriteString(dimStyle.Render("(nothing scheduled, try /plan)"))
		return b.String()
	}
	for _, blk := range blocks {
		bar := "█"
		if blk.Color != "" {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(blk.Color)).Render(bar)
		}
		title := blk.Title
		if blk.Completed {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s %s-%s %s\n", bar, blk.StartTime, blk.EndTime, title)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func EnergyMarkdown(p energy.Pattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Energy (avg %.1f/5)\n\n", p.OverallAverage)
	for _, r := range p.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String()
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
