package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/llm"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/planner"
	"github.com/sandeepkv93/keel/internal/storage"
)

type stubClient struct {
	reply string
}

func (s stubClient) Complete(context.Context, llm.Request) (string, error) {
	return s.reply, nil
}

var handlerNow = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

func setupHandlers(t *testing.T, apiKey string) (Handlers, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "commands.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	clock := func() time.Time { return handlerNow }
	factory := func(string) (llm.Client, error) {
		return stubClient{reply: `[{"text":"Open the form","minutes":2},{"text":"Fill in your name","minutes":3}]`}, nil
	}
	h := NewHandlers(context.Background(), Deps{
		Repo:    repo,
		Planner: planner.New(repo, nil, 14).WithClock(clock),
		Coach:   coach.NewEngine(factory, nil, coach.WithClock(clock)),
		APIKey:  func() string { return apiKey },
		Now:     clock,
	})
	return h, repo
}

func run(t *testing.T, h Handlers, line string) (Result, error) {
	t.Helper()
	cmd, err := Parse(line)
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return Execute(cmd, h)
}

func onlyTask(t *testing.T, repo *storage.SQLiteRepository) model.Task {
	t.Helper()
	tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{})
	if err != nil || len(tasks) != 1 {
		t.Fatalf("expected one task, got %d err=%v", len(tasks), err)
	}
	return tasks[0]
}

func TestHandlersAddPlanDone(t *testing.T) {
	h, repo := setupHandlers(t, "")
	ctx := context.Background()

	res, err := run(t, h, "add renew passport r:8 m:40")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	task := onlyTask(t, repo)
	if task.Title != "renew passport" || task.Resistance != 8 || task.EstimatedMinutes != 40 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if !strings.Contains(res.Message, ShortID(task.ID)) {
		t.Fatalf("expected short id in message, got %q", res.Message)
	}

	res, err = run(t, h, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Message != "Planned 1 block(s) for 2026-02-09" {
		t.Fatalf("unexpected plan message: %q", res.Message)
	}

	if _, err := run(t, h, "done "+ShortID(task.ID)); err != nil {
		t.Fatalf("done: %v", err)
	}
	task = onlyTask(t, repo)
	if task.Status != model.TaskStatusCompleted || task.CompletedAt == nil {
		t.Fatalf("expected completed task: %+v", task)
	}
	blocks, err := repo.ListTimeBlocks(ctx, storage.TimeBlockListFilter{TaskID: task.ID})
	if err != nil || len(blocks) != 1 || !blocks[0].Completed {
		t.Fatalf("expected linked block completed: %+v err=%v", blocks, err)
	}
}

func TestHandlersCheckinAndKey(t *testing.T) {
	h, repo := setupHandlers(t, "")
	ctx := context.Background()

	if _, err := run(t, h, "checkin 4 2 tired after lunch"); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	logs, err := repo.ListMoodLogs(ctx, storage.MoodLogListFilter{})
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one mood log, got %d err=%v", len(logs), err)
	}
	if logs[0].Energy != 2 || logs[0].Notes != "tired after lunch" {
		t.Fatalf("unexpected mood log: %+v", logs[0])
	}

	if _, err := run(t, h, "key sk-123"); err != nil {
		t.Fatalf("key: %v", err)
	}
	if got, _ := repo.GetSetting(ctx, storage.SettingAPIKey); got != "sk-123" {
		t.Fatalf("expected stored key, got %q", got)
	}
}

func TestHandlersUnknownTarget(t *testing.T) {
	h, _ := setupHandlers(t, "")
	if _, err := run(t, h, "add clean desk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := run(t, h, "steps zzzz")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected unknown target error, got %v", err)
	}
}

func TestHandlersSteps(t *testing.T) {
	h, repo := setupHandlers(t, "key")
	if _, err := run(t, h, "add fill tax form r:9"); err != nil {
		t.Fatalf("add: %v", err)
	}
	task := onlyTask(t, repo)

	res, err := run(t, h, "steps "+ShortID(task.ID))
	if err != nil {
		t.Fatalf("steps: %v", err)
	}
	if !strings.HasPrefix(res.Message, "Added 2 micro-step(s)") {
		t.Fatalf("unexpected message %q", res.Message)
	}
	task = onlyTask(t, repo)
	if len(task.Steps) != 2 || task.Steps[0].Text != "Open the form" {
		t.Fatalf("unexpected steps: %+v", task.Steps)
	}
}

func TestHandlersStepsWithoutKey(t *testing.T) {
	h, repo := setupHandlers(t, "")
	if _, err := run(t, h, "add fill tax form"); err != nil {
		t.Fatalf("add: %v", err)
	}
	task := onlyTask(t, repo)
	_, err := run(t, h, "steps "+ShortID(task.ID))
	if !llm.IsCode(err, llm.CodeAPIKeyRequired) {
		t.Fatalf("expected API_KEY_REQUIRED, got %v", err)
	}
}
