// Package prioritize ranks active tasks against the user's current energy,
// available time and deadlines with a single explainable scoring pass.
package prioritize

import (
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

type Action string

const (
	ActionDoNow     Action = "do_now"
	ActionQuickWin  Action = "quick_win"
	ActionBreakDown Action = "break_down"
	ActionSchedule  Action = "schedule"
	ActionDefer     Action = "defer"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionDoNow, ActionQuickWin, ActionBreakDown, ActionSchedule, ActionDefer:
		return true
	default:
		return false
	}
}

const (
	TagOverdue    = "overdue"
	TagUrgent     = "urgent"
	TagSoon       = "soon"
	TagHard       = "hard"
	TagQuickWin   = "quick-win"
	TagShort      = "short"
	TagInProgress = "in-progress"
)

type Context struct {
	CurrentEnergy int
	TimeAvailable int
	CurrentHour   int
	// Now is the reference time for deadline math; zero means time.Now().
	Now time.Time
}

type PrioritizedTask struct {
	TaskID          string   `json:"taskId"`
	Title           string   `json:"title"`
	Score           int      `json:"score"`
	Reasoning       string   `json:"reasoning"`
	SuggestedAction Action   `json:"suggestedAction"`
	Tags            []string `json:"tags"`
}

const baseScore = 50

// Active keeps only pending and in-progress tasks, preserving order.
func Active(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// Local scores every active task and returns them best first. Scores are
// always within [0, 100].
func Local(tasks []model.Task, ctx Context) []PrioritizedTask {
	active := Active(tasks)
	out := make([]PrioritizedTask, 0, len(active))
	if len(active) == 0 {
		return out
	}
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	energy := model.ClampRating(ctx.CurrentEnergy)

	for _, t := range active {
		out = append(out, score(t, energy, ctx.TimeAvailable, now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func score(t model.Task, energy, available int, now time.Time) PrioritizedTask {
	s := baseScore
	tags := make([]string, 0, 4)
	reasons := make([]string, 0, 4)
	action := ActionSchedule

	if t.Deadline != nil {
		until := t.Deadline.Sub(now)
		switch {
		case until < 0:
			s += 30
			tags = append(tags, TagOverdue)
			reasons = append(reasons, "Overdue")
		case until <= 24*time.Hour:
			s += 25
			tags = append(tags, TagUrgent)
			reasons = append(reasons, "Due within a day")
		case until <= 72*time.Hour:
			s += 15
			tags = append(tags, TagSoon)
			reasons = append(reasons, "Due within 3 days")
		}
	}

	minutes := t.Minutes()
	mismatch := t.Resistance - energy*2
	switch {
	case mismatch > 3:
		s -= 10
		tags = append(tags, TagHard)
		reasons = append(reasons, "Feels heavy for your current energy")
		action = ActionBreakDown
	case mismatch < -2 && minutes <= 15:
		s += 10
		tags = append(tags, TagQuickWin)
		reasons = append(reasons, "Quick win at your energy level")
		action = ActionQuickWin
	}

	if minutes <= available {
		s += 5
		if minutes <= 10 {
			tags = append(tags, TagShort)
		}
		reasons = append(reasons, "Fits in your available time")
	} else {
		s -= 5
		reasons = append(reasons, "Needs more time than you have")
	}

	if progress := t.Progress(); progress > 0 && progress < 1 {
		s += 10
		tags = append(tags, TagInProgress)
		reasons = append(reasons, "Already started")
	}

	switch {
	case s >= 70 && mismatch <= 2:
		action = ActionDoNow
	case t.Resistance >= 7 && len(t.Steps) == 0:
		action = ActionBreakDown
	case s < 40:
		action = ActionDefer
	}

	reasoning := "Standard priority"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, ". ")
	}
	return PrioritizedTask{
		TaskID:          t.ID,
		Title:           t.Title,
		Score:           Clamp(s),
		Reasoning:       reasoning,
		SuggestedAction: action,
		Tags:            tags,
	}
}

func Clamp(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
