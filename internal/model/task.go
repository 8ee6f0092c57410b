package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("model: invalid task status")
	ErrInvalidResistance = errors.New("model: invalid task resistance")
	ErrInvalidStep       = errors.New("model: invalid task step")
)

const (
	MinResistance = 1
	MaxResistance = 10

	// DefaultTaskMinutes is assumed whenever a task carries no estimate.
	DefaultTaskMinutes = 30
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusAbandoned  TaskStatus = "abandoned"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusAbandoned:
		return true
	default:
		return false
	}
}

// IsActive reports whether a task in this status still needs doing.
func (s TaskStatus) IsActive() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

type TaskStep struct {
	ID               string
	Text             string
	Completed        bool
	EstimatedMinutes int
}

type Task struct {
	ID               string
	Title            string
	Description      string
	Steps            []TaskStep
	Deadline         *time.Time
	Status           TaskStatus
	EstimatedMinutes int
	Resistance       int
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// NewTask builds a pending task with a fresh id and resistance clamped to 1..10.
func NewTask(title string, resistance int, now time.Time) Task {
	return Task{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(title),
		Status:     TaskStatusPending,
		Resistance: ClampResistance(resistance),
		CreatedAt:  now,
	}
}

func ClampResistance(v int) int {
	return clampInt(v, MinResistance, MaxResistance)
}

// Minutes returns the estimate, falling back to DefaultTaskMinutes.
func (t Task) Minutes() int {
	if t.EstimatedMinutes > 0 {
		return t.EstimatedMinutes
	}
	return DefaultTaskMinutes
}

// Progress is the completed fraction of steps; zero when there are none.
func (t Task) Progress() float64 {
	if len(t.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range t.Steps {
		if s.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Steps))
}

func (t *Task) AddStep(text string, minutes int) TaskStep {
	step := TaskStep{
		ID:               uuid.NewString(),
		Text:             strings.TrimSpace(text),
		EstimatedMinutes: clampInt(minutes, 1, 240),
	}
	t.Steps = append(t.Steps, step)
	return step
}

func (t *Task) CompleteStep(index int) error {
	if index < 0 || index >= len(t.Steps) {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidStep, index)
	}
	t.Steps[index].Completed = true
	if t.Status == TaskStatusPending {
		t.Status = TaskStatusInProgress
	}
	return nil
}

// Transition moves the task to a new status, keeping CompletedAt consistent.
func (t *Task) Transition(to TaskStatus, now time.Time) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	t.Status = to
	if to == TaskStatusCompleted {
		done := now
		t.CompletedAt = &done
	} else {
		t.CompletedAt = nil
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.Resistance < MinResistance || t.Resistance > MaxResistance {
		return fmt.Errorf("%w: %d", ErrInvalidResistance, t.Resistance)
	}
	if t.EstimatedMinutes < 0 {
		return errors.New("model: estimated minutes must not be negative")
	}
	for i, s := range t.Steps {
		if s.EstimatedMinutes < 0 {
			return fmt.Errorf("%w: step %d has negative estimate", ErrInvalidStep, i)
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Status == TaskStatusCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task status is completed")
	}
	if t.Status != TaskStatusCompleted && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task status is not completed")
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
