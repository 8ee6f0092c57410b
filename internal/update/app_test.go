package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/cognitive"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/planner"
	"github.com/sandeepkv93/keel/internal/scheduler"
	"github.com/sandeepkv93/keel/internal/storage"
)

var testNow = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, alerts *scheduler.AlertEngine) (Model, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "keel.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	now := func() time.Time { return testNow }
	log, _ := logtest.NewNullLogger()
	engine := coach.NewEngine(nil, log, coach.WithPicker(cognitive.FixedPicker(0)), coach.WithClock(now))
	m := NewModel(context.Background(), Deps{
		Repo:    repo,
		Coach:   engine,
		Planner: planner.New(repo, log, 14).WithClock(now),
		Alerts:  alerts,
		Now:     now,
		Log:     log,
	})
	return m, repo
}

// drain runs cmd and feeds every resulting message back into the model,
// skipping spinner ticks.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("command queue did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, follow := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func press(m Model, s string) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model), cmd
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.CurrentView != ViewCoach {
		t.Fatalf("expected default view %q, got %q", ViewCoach, m.CurrentView)
	}
	if m.Plan.Date != "2026-02-09" {
		t.Fatalf("expected today's date, got %q", m.Plan.Date)
	}
	if strings.TrimSpace(m.Coach.Quote) == "" {
		t.Fatal("expected an encouragement quote")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	for _, tc := range []struct {
		key  string
		want View
	}{
		{"2", ViewTasks},
		{"3", ViewPlan},
		{"1", ViewCoach},
	} {
		m, _ = press(m, tc.key)
		if m.CurrentView != tc.want {
			t.Fatalf("key %q: expected %q, got %q", tc.key, tc.want, m.CurrentView)
		}
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = send(m, SwitchViewMsg{View: ViewPlan})
	if m.CurrentView != ViewPlan {
		t.Fatalf("expected plan view, got %q", m.CurrentView)
	}
	m, _ = send(m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewPlan {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = send(m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m, _ = send(m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m, _ = send(m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, cmd := press(m, "q")
	if !m.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"view: Coach", "2026-02-09", "status: all good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestPaletteAddCreatesTask(t *testing.T) {
	m, repo := newTestModel(t, nil)
	m, _ = press(m, "/")
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m, _ = press(m, "add Pay rent r:3 m:15")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	m = drain(t, m, cmd)

	if m.Status.IsError || !strings.Contains(m.Status.Text, "Pay rent") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Resistance != 3 || tasks[0].EstimatedMinutes != 15 {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if len(m.Tasks.Items) != 1 {
		t.Fatalf("expected task list refreshed, got %d", len(m.Tasks.Items))
	}
}

func TestPaletteParseError(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = press(m, "/")
	m, _ = press(m, "bogus")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for a parse error")
	}
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestThoughtDumpAnalyzesAndSaves(t *testing.T) {
	m, repo := newTestModel(t, nil)
	ctx := context.Background()

	m, _ = press(m, "e")
	if !m.Coach.Editing {
		t.Fatal("expected editor active")
	}
	m, _ = press(m, "I always mess everything up. I need to call the dentist. I want to buy new headphones.")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Coach.Editing || m.Busy == "" {
		t.Fatalf("expected editor closed and busy, got editing=%v busy=%q", m.Coach.Editing, m.Busy)
	}
	m = drain(t, m, cmd)

	if m.Coach.Analysis == nil || m.Coach.Analysis.Source != coach.SourceBasic {
		t.Fatalf("expected a local analysis, got %+v", m.Coach.Analysis)
	}
	if m.Coach.DumpID == "" || m.Status.IsError {
		t.Fatalf("expected dump saved, status %+v", m.Status)
	}

	dump, err := repo.GetThoughtDump(ctx, m.Coach.DumpID)
	if err != nil {
		t.Fatalf("get dump: %v", err)
	}
	if dump.Source != "basic" || dump.CrisisSeverity != "none" || !strings.Contains(dump.AnalysisJSON, "overallAssessment") {
		t.Fatalf("unexpected stored dump: %+v", dump)
	}
	urges, err := repo.ListImpulseLogs(ctx, storage.ListFilter{})
	if err != nil {
		t.Fatalf("list impulses: %v", err)
	}
	if len(urges) != 1 {
		t.Fatalf("expected one urge recorded, got %+v", urges)
	}

	m, cmd = press(m, "a")
	m = drain(t, m, cmd)
	found := false
	for _, task := range m.Tasks.Items {
		if strings.Contains(strings.ToLower(task.Title), "dentist") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected extracted task added, got %+v", m.Tasks.Items)
	}

	// Accepting again does not duplicate.
	before := len(m.Tasks.Items)
	m, cmd = press(m, "a")
	m = drain(t, m, cmd)
	if len(m.Tasks.Items) != before {
		t.Fatalf("expected no duplicates, got %d tasks", len(m.Tasks.Items))
	}
}

func TestEmptyDumpIsRejected(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = press(m, "e")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || !m.Status.IsError {
		t.Fatalf("expected error status and no command, got %+v", m.Status)
	}
}

func TestTasksViewCompletesSelected(t *testing.T) {
	m, repo := newTestModel(t, nil)
	ctx := context.Background()
	task := model.NewTask("Return library books", 4, testNow)
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	m = drain(t, m, m.Init())
	if len(m.Tasks.Items) != 1 {
		t.Fatalf("expected one loaded task, got %d", len(m.Tasks.Items))
	}

	m, _ = press(m, "2")
	m, cmd := press(m, "d")
	m = drain(t, m, cmd)

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != model.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if len(m.Tasks.Items) != 0 {
		t.Fatalf("expected active list empty, got %+v", m.Tasks.Items)
	}
}

func TestTasksViewPrioritizes(t *testing.T) {
	m, repo := newTestModel(t, nil)
	ctx := context.Background()
	for _, task := range []model.Task{
		model.NewTask("Quick email", 2, testNow),
		model.NewTask("Tax return", 9, testNow),
	} {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	m = drain(t, m, m.Init())
	m, _ = press(m, "2")
	m, cmd := press(m, "p")
	m = drain(t, m, cmd)

	if len(m.Tasks.Ranked) != 2 || m.Tasks.RankSource != coach.SourceBasic {
		t.Fatalf("unexpected ranking: %+v (%s)", m.Tasks.Ranked, m.Tasks.RankSource)
	}
	if m.Tasks.Ranked[0].Score < m.Tasks.Ranked[1].Score {
		t.Fatalf("expected descending scores: %+v", m.Tasks.Ranked)
	}
}

func TestPlanViewPlansDay(t *testing.T) {
	m, repo := newTestModel(t, nil)
	ctx := context.Background()
	if err := repo.CreateTask(ctx, model.NewTask("Write report", 5, testNow)); err != nil {
		t.Fatalf("create task: %v", err)
	}
	m, _ = press(m, "3")
	m, cmd := press(m, "p")
	m = drain(t, m, cmd)

	if m.Plan.Last == nil || len(m.Plan.Last.Created) != 1 {
		t.Fatalf("expected one planned block, got %+v", m.Plan.Last)
	}
	if len(m.Plan.Blocks) != 1 {
		t.Fatalf("expected day reloaded with one block, got %d", len(m.Plan.Blocks))
	}

	m, cmd = press(m, "l")
	m = drain(t, m, cmd)
	if m.Plan.Date != "2026-02-10" || len(m.Plan.Blocks) != 0 || m.Plan.Last != nil {
		t.Fatalf("expected empty next day, got %s with %d blocks", m.Plan.Date, len(m.Plan.Blocks))
	}
}

func TestDayLoadArmsAlerts(t *testing.T) {
	alerts := scheduler.NewAlertEngine(4)
	m, _ := newTestModel(t, alerts)

	later := model.NewTimeBlock("Deep work", "2026-02-09", 10*60, 11*60)
	past := model.NewTimeBlock("Breakfast", "2026-02-09", 7*60, 7*60+30)
	m, _ = send(m, dayLoadedMsg{Date: "2026-02-09", Blocks: []model.TimeBlock{later, past}})
	if alerts.Pending() != 1 {
		t.Fatalf("expected one armed alert, got %d", alerts.Pending())
	}

	// Reloading the same day replaces rather than duplicates.
	m, _ = send(m, dayLoadedMsg{Date: "2026-02-09", Blocks: []model.TimeBlock{later, past}})
	if alerts.Pending() != 1 {
		t.Fatalf("expected re-arm to replace, got %d", alerts.Pending())
	}
	if len(m.Plan.Blocks) != 2 {
		t.Fatalf("expected blocks stored, got %d", len(m.Plan.Blocks))
	}
}

func TestBlockAlertShowsInStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	at := testNow.Add(time.Hour)
	m, cmd := send(m, BlockAlertMsg{Alert: scheduler.BlockAlert{BlockID: "b1", Title: "Deep work", StartsAt: at}})
	if cmd != nil {
		t.Fatal("expected no follow-up wait without an engine")
	}
	if m.LastAlert == nil || !strings.Contains(m.Status.Text, "Deep work") {
		t.Fatalf("unexpected alert state: %+v %+v", m.LastAlert, m.Status)
	}
	if !strings.Contains(m.View(), "Deep work at 09:00") {
		t.Fatalf("expected alert in view: %q", m.View())
	}
}
