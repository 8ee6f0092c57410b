package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/keel/internal/llm"
	"github.com/sandeepkv93/keel/internal/model"
)

const (
	minStepMinutes = 2
	maxStepMinutes = 5
	maxMicroSteps  = 7
)

type MicroStep struct {
	Text    string `json:"text"`
	Minutes int    `json:"minutes"`
}

// GenerateMicroSteps asks the model to split a task into 2-5 minute actions.
// There is no local fallback, so failures, including a missing key, are
// returned to the caller.
func (e *Engine) GenerateMicroSteps(ctx context.Context, task model.Task, apiKey string) ([]MicroStep, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", task.Description)
	}
	fmt.Fprintf(&b, "Resistance: %d/10\n", task.Resistance)

	var raw []MicroStep
	if err := e.complete(ctx, apiKey, llm.MicroStepsSystemPrompt, b.String(), &raw); err != nil {
		e.log.WithField("operation", "micro_steps").WithField("code", llm.CodeOf(err)).WithError(err).Warn("micro-step generation failed")
		return nil, err
	}

	steps := make([]MicroStep, 0, len(raw))
	for _, s := range raw {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		s.Minutes = min(max(s.Minutes, minStepMinutes), maxStepMinutes)
		steps = append(steps, s)
		if len(steps) == maxMicroSteps {
			break
		}
	}
	if len(steps) == 0 {
		return nil, &llm.EngineError{Code: llm.CodeEmptyResponse, Message: "no usable micro-steps in reply"}
	}
	return steps, nil
}

// ApplyMicroSteps appends generated steps to the task.
func ApplyMicroSteps(task *model.Task, steps []MicroStep) {
	for _, s := range steps {
		task.AddStep(s.Text, s.Minutes)
	}
}
