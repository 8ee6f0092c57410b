package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/planner"
	"github.com/sandeepkv93/keel/internal/storage"
)

type Deps struct {
	Repo    storage.Repository
	Planner *planner.Planner
	Coach   *coach.Engine
	// APIKey returns the key to use for remote calls, empty when none is set.
	APIKey func() string
	Now    func() time.Time
	Log    logrus.FieldLogger
}

// NewHandlers wires every palette command to the repository, planner and
// coach in d.
func NewHandlers(ctx context.Context, d Deps) Handlers {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.APIKey == nil {
		d.APIKey = func() string { return "" }
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			task := model.NewTask(a.Title, a.Resistance, d.Now())
			task.EstimatedMinutes = a.Minutes
			task.Deadline = a.Due
			if err := d.Repo.CreateTask(ctx, task); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("Added %q (%s)", task.Title, ShortID(task.ID))}, nil
		},
		Checkin: func(a CheckinArgs) (Result, error) {
			entry := model.NewMoodLog(a.Mood, a.Energy, d.Now(), a.Note)
			if err := d.Repo.CreateMoodLog(ctx, entry); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("Logged mood %d/5, energy %d/5", entry.Mood, entry.Energy)}, nil
		},
		Plan: func(a PlanArgs) (Result, error) {
			res, err := d.Planner.PlanDay(ctx, a.Date)
			if err != nil {
				return Result{}, err
			}
			msg := fmt.Sprintf("Planned %d block(s) for %s", len(res.Created), res.Date)
			if n := res.Unscheduled(); n > 0 {
				msg += fmt.Sprintf("; %d task(s) could not be scheduled", n)
			}
			return Result{Message: msg}, nil
		},
		Done: func(a TargetArgs) (Result, error) {
			task, err := findTask(ctx, d.Repo, a.Target)
			if err != nil {
				return Result{}, err
			}
			if err := task.Transition(model.TaskStatusCompleted, d.Now()); err != nil {
				return Result{}, err
			}
			if err := d.Repo.UpdateTask(ctx, task); err != nil {
				return Result{}, err
			}
			blocks, err := d.Repo.ListTimeBlocks(ctx, storage.TimeBlockListFilter{TaskID: task.ID})
			if err != nil {
				return Result{}, err
			}
			for _, b := range blocks {
				if b.Completed {
					continue
				}
				b.Completed = true
				if err := d.Repo.UpdateTimeBlock(ctx, b); err != nil {
					d.Log.WithError(err).WithField("block_id", b.ID).Warn("could not mark block completed")
				}
			}
			return Result{Message: fmt.Sprintf("Completed %q", task.Title)}, nil
		},
		Steps: func(a TargetArgs) (Result, error) {
			task, err := findTask(ctx, d.Repo, a.Target)
			if err != nil {
				return Result{}, err
			}
			steps, err := d.Coach.GenerateMicroSteps(ctx, task, d.APIKey())
			if err != nil {
				return Result{}, err
			}
			coach.ApplyMicroSteps(&task, steps)
			if err := d.Repo.UpdateTask(ctx, task); err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("Added %d micro-step(s) to %q", len(steps), task.Title)}, nil
		},
		Key: func(a KeyArgs) (Result, error) {
			if err := d.Repo.SetSetting(ctx, storage.SettingAPIKey, a.Key); err != nil {
				return Result{}, err
			}
			return Result{Message: "API key saved"}, nil
		},
	}
}

func findTask(ctx context.Context, repo storage.Repository, target string) (model.Task, error) {
	task, err := repo.FindTaskByPrefix(ctx, target)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matches %q", target)}
	case errors.Is(err, storage.ErrAmbiguousID):
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%q matches several tasks, type more of the id", target)}
	case err != nil:
		return model.Task{}, err
	}
	return task, nil
}

// ShortID is the id prefix shown to users and accepted by done/steps.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
