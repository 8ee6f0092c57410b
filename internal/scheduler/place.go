package scheduler

import "github.com/sandeepkv93/keel/internal/model"

// PlaceTask handles a manual drop of task at hour:minute on date. The minute
// snaps to the nearest quarter hour. No conflict search is done; overlapping
// manual placements are allowed. ok is false when the block would fall
// outside 06:00-22:00.
func PlaceTask(t model.Task, date string, hour, minute int) (model.TimeBlock, bool) {
	snapped := ((minute + granularity/2) / granularity) * granularity
	start := hour*60 + snapped
	end := start + t.Minutes()
	if start < model.DayStartMinute || end > model.DayEndMinute {
		return model.TimeBlock{}, false
	}
	block := model.NewTimeBlock(t.Title, date, start, end)
	block.Color = ColorFor(t.Resistance)
	block.Category = model.BlockCategoryWork
	block.TaskID = t.ID
	return block, true
}
