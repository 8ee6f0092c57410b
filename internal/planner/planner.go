package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/energy"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/scheduler"
	"github.com/sandeepkv93/keel/internal/storage"
)

var ErrInvalidDate = errors.New("planner: invalid date")

// Store is the slice of the repository the planner needs.
type Store interface {
	ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]model.Task, error)
	ListTimeBlocks(ctx context.Context, filter storage.TimeBlockListFilter) ([]model.TimeBlock, error)
	ListMoodLogs(ctx context.Context, filter storage.MoodLogListFilter) ([]model.MoodLog, error)
	CreateTimeBlock(ctx context.Context, in model.TimeBlock) error
}

type Result struct {
	Date     string
	Created  []model.TimeBlock
	Skipped  []scheduler.Skipped
	Deferred int
	Pattern  energy.Pattern
}

// Unscheduled is the number of candidate tasks that did not get a block.
func (r Result) Unscheduled() int {
	return len(r.Skipped) + r.Deferred
}

type Planner struct {
	store      Store
	log        logrus.FieldLogger
	now        func() time.Time
	windowDays int
}

func New(store Store, log logrus.FieldLogger, windowDays int) *Planner {
	if windowDays <= 0 {
		windowDays = energy.DefaultWindowDays
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Planner{store: store, log: log, now: time.Now, windowDays: windowDays}
}

// WithClock replaces the wall clock, for tests.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// EnergyPattern analyzes the mood logs in the configured window.
func (p *Planner) EnergyPattern(ctx context.Context) (energy.Pattern, error) {
	now := p.now()
	since := now.AddDate(0, 0, -p.windowDays)
	logs, err := p.store.ListMoodLogs(ctx, storage.MoodLogListFilter{Since: &since})
	if err != nil {
		return energy.Pattern{}, fmt.Errorf("load mood logs: %w", err)
	}
	return energy.Analyze(logs, p.windowDays, now), nil
}

// PlanDay auto-schedules pending tasks onto date (today when empty) and
// persists the new blocks. Tasks that did not fit are reported, not dropped.
func (p *Planner) PlanDay(ctx context.Context, date string) (Result, error) {
	date, err := p.resolveDate(date)
	if err != nil {
		return Result{}, err
	}
	tasks, err := p.store.ListTasks(ctx, storage.TaskListFilter{Status: model.TaskStatusPending})
	if err != nil {
		return Result{}, fmt.Errorf("load tasks: %w", err)
	}
	existing, err := p.store.ListTimeBlocks(ctx, storage.TimeBlockListFilter{Date: date})
	if err != nil {
		return Result{}, fmt.Errorf("load blocks: %w", err)
	}
	pattern, err := p.EnergyPattern(ctx)
	if err != nil {
		return Result{}, err
	}

	sched := scheduler.AutoSchedule(tasks, existing, pattern, date)
	res := Result{
		Date:     date,
		Created:  make([]model.TimeBlock, 0, len(sched.Blocks)),
		Skipped:  sched.Skipped,
		Deferred: sched.Deferred,
		Pattern:  pattern,
	}
	for _, b := range sched.Blocks {
		if err := p.store.CreateTimeBlock(ctx, b); err != nil {
			return res, fmt.Errorf("save block %q: %w", b.Title, err)
		}
		res.Created = append(res.Created, b)
	}

	for _, s := range res.Skipped {
		p.log.WithFields(logrus.Fields{
			"date":    date,
			"task_id": s.TaskID,
			"title":   s.Title,
			"reason":  s.Reason,
		}).Info("task could not be scheduled")
	}
	p.log.WithFields(logrus.Fields{
		"date":     date,
		"created":  len(res.Created),
		"skipped":  len(res.Skipped),
		"deferred": res.Deferred,
	}).Info("day planned")
	return res, nil
}

// SuggestTimes ranks the hours of date for a task of the given resistance.
func (p *Planner) SuggestTimes(ctx context.Context, resistance int, date string) ([]energy.TimeRecommendation, error) {
	date, err := p.resolveDate(date)
	if err != nil {
		return nil, err
	}
	blocks, err := p.store.ListTimeBlocks(ctx, storage.TimeBlockListFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	pattern, err := p.EnergyPattern(ctx)
	if err != nil {
		return nil, err
	}
	return energy.SuggestOptimalTimes(resistance, pattern, blocks), nil
}

func (p *Planner) resolveDate(date string) (string, error) {
	if date == "" {
		return p.now().Format(model.DateLayout), nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return date, nil
}
