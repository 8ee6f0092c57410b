package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/keel/internal/llm"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/prioritize"
)

type PrioritiesResult struct {
	Tasks  []prioritize.PrioritizedTask
	Source Source
}

// Prioritize ranks the active tasks for the given context.
func (e *Engine) Prioritize(ctx context.Context, tasks []model.Task, pctx prioritize.Context, apiKey string) PrioritiesResult {
	if pctx.Now.IsZero() {
		pctx.Now = e.now()
	}
	active := prioritize.Active(tasks)
	res := PrioritiesResult{Source: SourceBasic}
	local := func() []prioritize.PrioritizedTask { return prioritize.Local(active, pctx) }

	if len(active) == 0 || !e.remoteEnabled(apiKey) {
		res.Tasks = local()
		return res
	}

	content := prioritizationContent(active, pctx)
	ranked, remote := llm.WithLocalFallback(ctx, e.log, "prioritize", func(ctx context.Context) ([]prioritize.PrioritizedTask, error) {
		var entries []prioritize.RemoteEntry
		if err := e.complete(ctx, apiKey, llm.PrioritizationSystemPrompt, content, &entries); err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, &llm.EngineError{Code: llm.CodeEmptyResponse, Message: "prioritization reply is empty"}
		}
		return prioritize.ApplyRemote(active, entries, pctx), nil
	}, local)
	res.Tasks = ranked
	if remote {
		res.Source = SourceAI
	}
	return res
}

func prioritizationContent(active []model.Task, pctx prioritize.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current energy: %d/5\n", model.ClampRating(pctx.CurrentEnergy))
	fmt.Fprintf(&b, "Time available: %d minutes\n", pctx.TimeAvailable)
	fmt.Fprintf(&b, "Current hour: %d\n\nTasks:\n", pctx.CurrentHour)
	for i, t := range active {
		fmt.Fprintf(&b, "%d. %s (resistance %d/10, ~%d min", i, t.Title, t.Resistance, t.Minutes())
		if t.Deadline != nil {
			fmt.Fprintf(&b, ", due %s", t.Deadline.Format(model.DateLayout))
		}
		if n := len(t.Steps); n > 0 {
			done := int(t.Progress()*float64(n) + 0.5)
			fmt.Fprintf(&b, ", %d/%d steps done", done, n)
		}
		b.WriteString(")\n")
	}
	return b.String()
}
