package prioritize

import (
	"math"
	"sort"

	"github.com/sandeepkv93/keel/internal/model"
)

// RemoteEntry is one element of the model's prioritization reply. Index
// refers to the position in the active task list that was sent.
type RemoteEntry struct {
	Index           int      `json:"index"`
	Score           float64  `json:"score"`
	Reasoning       string   `json:"reasoning"`
	SuggestedAction string   `json:"suggestedAction"`
	Tags            []string `json:"tags"`
}

// ApplyRemote maps a remote reply back onto the active tasks. Entries with an
// out-of-range or repeated index are ignored; tasks the reply skipped keep
// their local score so nothing silently disappears.
func ApplyRemote(tasks []model.Task, entries []RemoteEntry, ctx Context) []PrioritizedTask {
	active := Active(tasks)
	local := Local(active, ctx)
	byID := make(map[string]PrioritizedTask, len(local))
	for _, p := range local {
		byID[p.TaskID] = p
	}

	used := make(map[int]bool, len(entries))
	out := make([]PrioritizedTask, 0, len(active))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= len(active) || used[e.Index] {
			continue
		}
		used[e.Index] = true
		t := active[e.Index]
		action := Action(e.SuggestedAction)
		if !action.IsValid() {
			action = ActionSchedule
		}
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, PrioritizedTask{
			TaskID:          t.ID,
			Title:           t.Title,
			Score:           clampRemote(e.Score),
			Reasoning:       e.Reasoning,
			SuggestedAction: action,
			Tags:            tags,
		})
	}
	for i, t := range active {
		if !used[i] {
			out = append(out, byID[t.ID])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// clampRemote bounds a model score before converting it, since out-of-range
// float to int conversions are implementation-defined.
func clampRemote(score float64) int {
	return Clamp(int(math.Round(math.Min(math.Max(score, 0), 100))))
}
