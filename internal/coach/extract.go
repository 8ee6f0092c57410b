package coach

import (
	"context"
	"strings"

	"github.com/sandeepkv93/keel/internal/crisis"
	"github.com/sandeepkv93/keel/internal/extract"
	"github.com/sandeepkv93/keel/internal/llm"
)

type ItemsResult struct {
	Items  extract.Items
	Source Source
}

// ExtractItems pulls tasks and urges out of a transcript.
func (e *Engine) ExtractItems(ctx context.Context, transcript, apiKey string) ItemsResult {
	c := crisis.Detect(transcript)
	res := ItemsResult{Source: SourceBasic}
	local := func() extract.Items { return extract.ExtractLocally(transcript) }

	if !e.remoteEnabled(apiKey) {
		res.Items = local()
		return res
	}

	content := llm.WithCrisisNote(transcript, string(c.Severity))
	items, remote := llm.WithLocalFallback(ctx, e.log, "extract", func(ctx context.Context) (extract.Items, error) {
		var out extract.Items
		if err := e.complete(ctx, apiKey, llm.ExtractionSystemPrompt, content, &out); err != nil {
			return extract.Items{}, err
		}
		return sanitizeItems(out), nil
	}, local)
	res.Items = items
	if remote {
		res.Source = SourceAI
	}
	return res
}

func sanitizeItems(in extract.Items) extract.Items {
	out := extract.Items{Tasks: []extract.Task{}, Urges: []extract.Urge{}}
	seen := make(map[string]bool, len(in.Tasks))
	for _, t := range in.Tasks {
		t.Title = strings.TrimSpace(t.Title)
		key := strings.ToLower(t.Title)
		if t.Title == "" || seen[key] {
			continue
		}
		seen[key] = true
		switch t.Priority {
		case extract.PriorityHigh, extract.PriorityMedium, extract.PriorityLow:
		default:
			t.Priority = extract.PriorityMedium
		}
		out.Tasks = append(out.Tasks, t)
		if len(out.Tasks) == extract.MaxTasks {
			break
		}
	}
	for _, u := range in.Urges {
		u.Urge = strings.TrimSpace(u.Urge)
		if u.Urge == "" {
			continue
		}
		u.Intensity = min(max(u.Intensity, 1), 10)
		out.Urges = append(out.Urges, u)
		if len(out.Urges) == extract.MaxUrges {
			break
		}
	}
	return out
}
