package coach

import (
	"context"
	"strings"

	"github.com/sandeepkv93/keel/internal/cognitive"
	"github.com/sandeepkv93/keel/internal/crisis"
	"github.com/sandeepkv93/keel/internal/llm"
)

type AnalysisResult struct {
	Crisis   crisis.Result
	Analysis cognitive.Analysis
	Source   Source
}

// AnalyzeThoughts screens the transcript for crisis language first, then asks
// the model for a cognitive analysis, falling back to local heuristics.
func (e *Engine) AnalyzeThoughts(ctx context.Context, transcript, apiKey string) AnalysisResult {
	c := crisis.Detect(transcript)
	res := AnalysisResult{Crisis: c, Source: SourceBasic}
	local := func() cognitive.Analysis { return cognitive.AnalyzeLocally(transcript, e.picker) }

	if !e.remoteEnabled(apiKey) {
		res.Analysis = local()
		return res
	}

	content := llm.WithCrisisNote(transcript, string(c.Severity))
	analysis, remote := llm.WithLocalFallback(ctx, e.log, "analyze", func(ctx context.Context) (cognitive.Analysis, error) {
		var out cognitive.Analysis
		if err := e.complete(ctx, apiKey, llm.AnalysisSystemPrompt, content, &out); err != nil {
			return cognitive.Analysis{}, err
		}
		return sanitizeAnalysis(out)
	}, local)
	res.Analysis = analysis
	if remote {
		res.Source = SourceAI
	}
	return res
}

func sanitizeAnalysis(a cognitive.Analysis) (cognitive.Analysis, error) {
	if strings.TrimSpace(a.OverallAssessment) == "" {
		return cognitive.Analysis{}, &llm.EngineError{Code: llm.CodeParse, Message: "analysis reply has no overallAssessment"}
	}
	if len(a.Distortions) > cognitive.MaxDistortions {
		a.Distortions = a.Distortions[:cognitive.MaxDistortions]
	}
	if a.Distortions == nil {
		a.Distortions = []cognitive.Distortion{}
	}
	a.RealityChecks = capStrings(a.RealityChecks, cognitive.MaxRealityCheck)
	a.Reframes = capStrings(a.Reframes, cognitive.MaxReframes)
	if a.CoachAdvice != nil {
		a.CoachAdvice.ShortTermSteps = capStrings(a.CoachAdvice.ShortTermSteps, cognitive.MaxSteps)
	}
	return a, nil
}

func capStrings(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
