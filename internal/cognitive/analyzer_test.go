package cognitive

import (
	"strings"
	"testing"
)

func hasType(a Analysis, kind DistortionType) bool {
	for _, d := range a.Distortions {
		if d.Type == kind {
			return true
		}
	}
	return false
}

func TestAnalyzeLocallyDetectsAllOrNothingAndLabeling(t *testing.T) {
	a := AnalyzeLocally("I always fail at everything, I'm such a failure", FixedPicker(0))
	if !hasType(a, AllOrNothing) || !hasType(a, Labeling) {
		t.Fatalf("expected all-or-nothing and labeling, got %+v", a.Distortions)
	}
	for _, d := range a.Distortions {
		if d.Quote != "I always fail at everything, I'm such a failure" {
			t.Fatalf("unexpected quote: %q", d.Quote)
		}
	}
}

func TestAnalyzeLocallyOneMatchPerCategoryAndSentence(t *testing.T) {
	a := AnalyzeLocally("I never do anything right and nothing ever works, always", FixedPicker(0))
	count := 0
	for _, d := range a.Distortions {
		if d.Type == AllOrNothing {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one all-or-nothing entry, got %d", count)
	}
}

func TestAnalyzeLocallyCaps(t *testing.T) {
	text := strings.Repeat("Everyone thinks I'm such a failure and it's a total disaster. I should have known it will never work. It's my fault. I feel like an idiot! ", 5)
	a := AnalyzeLocally(text, FixedPicker(0))
	if len(a.Distortions) > MaxDistortions {
		t.Fatalf("distortions exceed cap: %d", len(a.Distortions))
	}
	if len(a.Distortions) != MaxDistortions {
		t.Fatalf("expected cap to be reached, got %d", len(a.Distortions))
	}
	if len(a.RealityChecks) > MaxRealityCheck || len(a.Reframes) > MaxReframes {
		t.Fatalf("checks/reframes exceed caps: %d/%d", len(a.RealityChecks), len(a.Reframes))
	}
	if a.CoachAdvice == nil || len(a.CoachAdvice.ShortTermSteps) > MaxSteps {
		t.Fatalf("unexpected coach advice: %+v", a.CoachAdvice)
	}
}

func TestAnalyzeLocallyFirstFiveInSentenceOrder(t *testing.T) {
	a := AnalyzeLocally("It's a disaster. Nobody cares. I'm such an idiot. It was just luck. I feel like giving up. They think I'm lazy.", FixedPicker(0))
	want := []DistortionType{Catastrophizing, Overgeneralization, Labeling, DiscountingPositive, EmotionalReasoning}
	if len(a.Distortions) != len(want) {
		t.Fatalf("expected %d distortions, got %+v", len(want), a.Distortions)
	}
	for i, w := range want {
		if a.Distortions[i].Type != w {
			t.Fatalf("distortion[%d] = %s, want %s", i, a.Distortions[i].Type, w)
		}
	}
	if hasType(a, MindReading) {
		t.Fatal("sixth distortion should have been cut by the cap")
	}
}

func TestAnalyzeLocallyBalanced(t *testing.T) {
	a := AnalyzeLocally("Went for a walk. Had lunch with a friend.", FixedPicker(0))
	if len(a.Distortions) != 0 {
		t.Fatalf("expected no distortions, got %+v", a.Distortions)
	}
	if !strings.Contains(a.OverallAssessment, "balanced") {
		t.Fatalf("unexpected assessment: %q", a.OverallAssessment)
	}
	if a.CoachAdvice.ImmediateAction != defaultAction {
		t.Fatalf("expected breathing default, got %q", a.CoachAdvice.ImmediateAction)
	}
	if a.CoachAdvice.CopingStrategy != boxBreathing {
		t.Fatalf("expected box breathing, got %q", a.CoachAdvice.CopingStrategy)
	}
	if len(a.CoachAdvice.ShortTermSteps) != minSteps {
		t.Fatalf("expected generic top-up to %d steps, got %v", minSteps, a.CoachAdvice.ShortTermSteps)
	}
}

func TestAnalyzeLocallyEmptyInput(t *testing.T) {
	a := AnalyzeLocally("", nil)
	if a.CoachAdvice == nil || a.OverallAssessment == "" {
		t.Fatalf("expected usable analysis for empty input, got %+v", a)
	}
}

func TestCoachAdviceImmediateActionTable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I'm so anxious about tomorrow", emotionRules[0].action},
		{"I'm frustrated with the printer", emotionRules[1].action},
		{"Feeling sad today", emotionRules[2].action},
		{"I'm overwhelmed by email", emotionRules[3].action},
	}
	for _, tc := range cases {
		a := AnalyzeLocally(tc.in, FixedPicker(0))
		if a.CoachAdvice.ImmediateAction != tc.want {
			t.Fatalf("%q: immediate action = %q", tc.in, a.CoachAdvice.ImmediateAction)
		}
	}
}

func TestCoachAdviceCopingStrategyTable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"This is going to be a disaster.", bestWorstLikely},
		{"They think I'm lazy.", evidenceCheck},
		{"It's my fault.", evidenceCheck},
		{"I feel like nobody listens.", nameItToTameIt},
	}
	for _, tc := range cases {
		a := AnalyzeLocally(tc.in, FixedPicker(0))
		if a.CoachAdvice.CopingStrategy != tc.want {
			t.Fatalf("%q: coping strategy = %q", tc.in, a.CoachAdvice.CopingStrategy)
		}
	}
}

func TestAffirmationUsesPicker(t *testing.T) {
	a := AnalyzeLocally("hello there", FixedPicker(2))
	if a.CoachAdvice.Affirmation != affirmations[2] {
		t.Fatalf("expected affirmation 2, got %q", a.CoachAdvice.Affirmation)
	}
	b := AnalyzeLocally("hello there", FixedPicker(7))
	if b.CoachAdvice.Affirmation != affirmations[2] {
		t.Fatalf("expected wrapped index 2, got %q", b.CoachAdvice.Affirmation)
	}
}

func TestCurlyApostrophesMatch(t *testing.T) {
	a := AnalyzeLocally("I’m such a mess", FixedPicker(0))
	if !hasType(a, Labeling) {
		t.Fatalf("expected labeling with curly apostrophe, got %+v", a.Distortions)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two!! Three?  . ")
	if len(got) != 3 || got[2] != "Three" {
		t.Fatalf("unexpected split: %q", got)
	}
}

func TestQuoteUsesPicker(t *testing.T) {
	if Quote(FixedPicker(1)) != quotes[1] {
		t.Fatal("expected quote 1")
	}
}
