package scheduler

import (
	"sort"

	"github.com/sandeepkv93/keel/internal/energy"
	"github.com/sandeepkv93/keel/internal/model"
)

const (
	MaxTasksPerRun = 5

	cursorStart  = 9 * 60
	probeStep    = 30
	probeCeiling = 20 * 60
	bufferAfter  = 15
	granularity  = 15

	// HighResistance tasks are the ones routed to peak energy hours.
	HighResistance = 7
)

const (
	ColorHigh   = "#ef4444"
	ColorMedium = "#f97316"
	ColorLow    = "#22c55e"
)

// ColorFor maps a resistance score to its block colour tier.
func ColorFor(resistance int) string {
	switch {
	case resistance >= HighResistance:
		return ColorHigh
	case resistance >= 4:
		return ColorMedium
	default:
		return ColorLow
	}
}

type SkipReason string

const (
	SkipNoFreeSlot SkipReason = "no_free_slot"
)

type Skipped struct {
	TaskID string
	Title  string
	Reason SkipReason
}

type Result struct {
	Blocks  []model.TimeBlock
	Skipped []Skipped
	// Deferred counts candidates beyond MaxTasksPerRun that were not tried.
	Deferred int
}

type interval struct {
	start, end int
}

func (a interval) overlaps(b interval) bool {
	return a.start < b.end && b.start < a.end
}

type occupancy []interval

func (o occupancy) conflicts(iv interval) bool {
	if iv.start < model.DayStartMinute || iv.end > model.DayEndMinute {
		return true
	}
	for _, x := range o {
		if x.overlaps(iv) {
			return true
		}
	}
	return false
}

// UnscheduledTasks returns pending tasks with no block linked on date.
func UnscheduledTasks(tasks []model.Task, blocks []model.TimeBlock, date string) []model.Task {
	linked := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if b.Date == date && b.TaskID != "" {
			linked[b.TaskID] = true
		}
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == model.TaskStatusPending && !linked[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// AutoSchedule greedily places up to MaxTasksPerRun unscheduled tasks on date,
// highest resistance first. Each placement is visible to the ones after it,
// so the returned blocks never overlap each other or existing blocks.
func AutoSchedule(tasks []model.Task, existing []model.TimeBlock, pattern energy.Pattern, date string) Result {
	busy := make(occupancy, 0, len(existing)+MaxTasksPerRun)
	for _, b := range existing {
		if b.Date != "" && b.Date != date {
			continue
		}
		start, end, err := b.Span()
		if err != nil || start >= end {
			continue
		}
		busy = append(busy, interval{start, end})
	}

	candidates := UnscheduledTasks(tasks, existing, date)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Resistance > candidates[j].Resistance
	})

	res := Result{Blocks: []model.TimeBlock{}, Skipped: []Skipped{}}
	if len(candidates) > MaxTasksPerRun {
		res.Deferred = len(candidates) - MaxTasksPerRun
		candidates = candidates[:MaxTasksPerRun]
	}

	peaks := append([]int(nil), pattern.PeakHours...)
	sort.Ints(peaks)

	cursor := cursorStart
	for _, t := range candidates {
		duration := t.Minutes()
		slot := interval{cursor, cursor + duration}

		if t.Resistance >= HighResistance && len(peaks) > 0 {
			for _, h := range peaks {
				iv := interval{h * 60, h*60 + duration}
				if !busy.conflicts(iv) {
					slot = iv
					break
				}
			}
		}

		if busy.conflicts(slot) {
			found := false
			for probe := cursor; probe <= probeCeiling; probe += probeStep {
				iv := interval{probe, probe + duration}
				if !busy.conflicts(iv) {
					slot, found = iv, true
					break
				}
			}
			if !found {
				res.Skipped = append(res.Skipped, Skipped{TaskID: t.ID, Title: t.Title, Reason: SkipNoFreeSlot})
				continue
			}
		}

		block := model.NewTimeBlock(t.Title, date, slot.start, slot.end)
		block.Color = ColorFor(t.Resistance)
		block.Category = model.BlockCategoryWork
		block.TaskID = t.ID
		res.Blocks = append(res.Blocks, block)
		busy = append(busy, slot)

		if next := snapUp(slot.end + bufferAfter); next > cursor {
			cursor = next
		}
	}
	return res
}

func snapUp(minute int) int {
	if r := minute % granularity; r != 0 {
		return minute + granularity - r
	}
	return minute
}
