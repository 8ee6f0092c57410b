// Package cognitive is the local, network-free thought analyzer. It detects
// common cognitive distortions by keyword and builds coaching advice from
// fixed tables, so there is always something to show when the remote model
// is unavailable.
package cognitive

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxDistortions  = 5
	MaxRealityCheck = 4
	MaxReframes     = 4
	MaxSteps        = 3
	minSteps        = 2
)

type Distortion struct {
	Type        DistortionType `json:"type"`
	Quote       string         `json:"quote"`
	Explanation string         `json:"explanation"`
}

type CoachAdvice struct {
	ImmediateAction string   `json:"immediateAction"`
	ShortTermSteps  []string `json:"shortTermSteps"`
	CopingStrategy  string   `json:"copingStrategy"`
	Affirmation     string   `json:"affirmation"`
}

type Analysis struct {
	Distortions       []Distortion `json:"distortions"`
	RealityChecks     []string     `json:"realityChecks"`
	Reframes          []string     `json:"reframes"`
	OverallAssessment string       `json:"overallAssessment"`
	CoachAdvice       *CoachAdvice `json:"coachAdvice,omitempty"`
}

// AnalyzeLocally never fails: any transcript, including an empty one,
// produces a usable Analysis.
func AnalyzeLocally(transcript string, picker IndexPicker) Analysis {
	if picker == nil {
		picker = NewRandomPicker()
	}
	text := normalize(transcript)

	distortions := make([]Distortion, 0, MaxDistortions)
scan:
	for _, sentence := range SplitSentences(text) {
		for _, c := range categories {
			if !c.matches(sentence) {
				continue
			}
			distortions = append(distortions, Distortion{
				Type:        c.kind,
				Quote:       sentence,
				Explanation: c.explanation,
			})
			if len(distortions) == MaxDistortions {
				break scan
			}
		}
	}

	kinds := distinctTypes(distortions)
	checks := make([]string, 0, MaxRealityCheck)
	reframes := make([]string, 0, MaxReframes)
	for _, k := range kinds {
		c := categoryByType[k]
		checks = appendUnique(checks, c.realityCheck, MaxRealityCheck)
		reframes = appendUnique(reframes, c.reframe, MaxReframes)
	}

	return Analysis{
		Distortions:       distortions,
		RealityChecks:     checks,
		Reframes:          reframes,
		OverallAssessment: assess(kinds, len(distortions)),
		CoachAdvice:       buildAdvice(text, kinds, picker),
	}
}

func assess(kinds []DistortionType, count int) string {
	if count == 0 {
		return "Your thoughts appear balanced right now. Keep noticing how you talk to yourself; that awareness is a real skill."
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	noun := "thinking patterns"
	if count == 1 {
		noun = "thinking pattern"
	}
	return fmt.Sprintf("I noticed %d %s that may be adding stress (%s). These are very common and can be gently challenged.",
		count, noun, strings.Join(names, ", "))
}

type emotionRule struct {
	pattern *regexp.Regexp
	action  string
}

var emotionRules = []emotionRule{
	{
		pattern: regexp.MustCompile(`(?i)\b(anxious|anxiety|worried|worry|stressed|stress|nervous|panic(king)?)\b`),
		action:  "Try the 5-4-3-2-1 grounding exercise: name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, and 1 you taste.",
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(angry|anger|frustrated|frustrating|furious|irritated|mad)\b`),
		action:  "Release the tension physically: clench your fists for five seconds, then let go, or take a brisk two-minute walk.",
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(sad|down|depressed|lonely|empty|low)\b`),
		action:  "Change your physical state: stand up, open a window or step outside, and drink a glass of water.",
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(overwhelmed|overwhelming|too much)\b`),
		action:  "Pick one small thing you can control right now, like clearing your desk or writing a single to-do, and do just that.",
	},
}

const defaultAction = "Take three slow breaths: in for four counts, hold for four, out for six."

var genericSteps = []string{
	"Break your next task into a step that takes less than five minutes.",
	"Schedule a short check-in with yourself later today.",
	"Talk to someone you trust about how you're feeling.",
}

const (
	bestWorstLikely = "Best/worst/likely: write down the best case, the worst case, and the most likely outcome, then plan for the likely one."
	evidenceCheck   = "Evidence for and against: list the facts that support this thought and the facts that don't."
	nameItToTameIt  = "Name it to tame it: say the emotion out loud (\"I'm feeling anxious\") to turn down its intensity."
	boxBreathing    = "Box breathing: breathe in for 4, hold for 4, out for 4, hold for 4. Repeat four times."
)

var affirmations = []string{
	"You are doing better than you think.",
	"Your thoughts are not facts, and you get to choose which ones to follow.",
	"Small steps still move you forward.",
	"It's okay to struggle. Struggling is not the same as failing.",
	"You have handled difficult days before, and you can handle this one.",
}

func buildAdvice(text string, kinds []DistortionType, picker IndexPicker) *CoachAdvice {
	action := defaultAction
	for _, r := range emotionRules {
		if r.pattern.MatchString(text) {
			action = r.action
			break
		}
	}

	steps := make([]string, 0, MaxSteps)
	for _, k := range kinds {
		steps = appendUnique(steps, categoryByType[k].step, MaxSteps)
	}
	for _, g := range genericSteps {
		if len(steps) >= minSteps {
			break
		}
		steps = appendUnique(steps, g, MaxSteps)
	}

	return &CoachAdvice{
		ImmediateAction: action,
		ShortTermSteps:  steps,
		CopingStrategy:  copingFor(kinds),
		Affirmation:     affirmations[pick(picker, len(affirmations))],
	}
}

func copingFor(kinds []DistortionType) string {
	has := func(targets ...DistortionType) bool {
		for _, k := range kinds {
			for _, t := range targets {
				if k == t {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has(Catastrophizing, FortuneTelling):
		return bestWorstLikely
	case has(MindReading, Personalization):
		return evidenceCheck
	case has(EmotionalReasoning):
		return nameItToTameIt
	default:
		return boxBreathing
	}
}

func distinctTypes(ds []Distortion) []DistortionType {
	seen := make(map[DistortionType]bool, len(ds))
	out := make([]DistortionType, 0, len(ds))
	for _, d := range ds {
		if seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		out = append(out, d.Type)
	}
	return out
}

func appendUnique(list []string, item string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
