package energy

import (
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

var refNow = time.Date(2026, 2, 20, 18, 0, 0, 0, time.UTC)

func logAt(daysAgo, hour, energy int) model.MoodLog {
	day := refNow.AddDate(0, 0, -daysAgo)
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, 15, 0, 0, time.UTC)
	return model.NewMoodLog(3, energy, at, "")
}

func scenarioLogs() []model.MoodLog {
	logs := make([]model.MoodLog, 0, 11)
	for d := 1; d <= 5; d++ {
		logs = append(logs, logAt(d, 9, 5), logAt(d, 15, 1))
	}
	logs = append(logs, logAt(3, 12, 3))
	return logs
}

func TestAnalyzePeakAndLowScenario(t *testing.T) {
	p := Analyze(scenarioLogs(), 14, refNow)
	if !p.IsPeak(9) {
		t.Fatalf("expected hour 9 in peak hours, got %v", p.PeakHours)
	}
	if len(p.LowHours) != 1 || p.LowHours[0] != 15 {
		t.Fatalf("expected hour 15 as the only low hour, got %v", p.LowHours)
	}
	if h, ok := p.Average(12); !ok || h.SampleCount != 1 {
		t.Fatalf("expected sparse hour 12 present with one sample, got %+v", h)
	}
	if p.IsPeak(12) || containsHour(p.LowHours, 12) {
		t.Fatal("sparse hour must not be classified")
	}
	if p.OverallAverage != 3 {
		t.Fatalf("expected overall average 3, got %v", p.OverallAverage)
	}
	joined := strings.Join(p.Recommendations, " | ")
	if !strings.Contains(joined, "9 AM") || !strings.Contains(joined, "3 PM") {
		t.Fatalf("expected formatted hours in recommendations: %s", joined)
	}
	if !strings.Contains(joined, "morning person") {
		t.Fatalf("expected morning person message: %s", joined)
	}
	if strings.Contains(joined, "Log your energy") {
		t.Fatalf("did not expect log-more prompt with %d logs", len(scenarioLogs()))
	}
}

func TestAnalyzePeakAndLowDisjoint(t *testing.T) {
	logs := []model.MoodLog{}
	for d := 1; d <= 4; d++ {
		for h := 6; h <= 22; h++ {
			logs = append(logs, logAt(d, h, 1+(h*d)%5))
		}
	}
	p := Analyze(logs, 14, refNow)
	for _, h := range p.PeakHours {
		if containsHour(p.LowHours, h) {
			t.Fatalf("hour %d is both peak and low", h)
		}
		avg, _ := p.Average(h)
		if avg.SampleCount < 2 {
			t.Fatalf("peak hour %d has too few samples", h)
		}
	}
}

func TestAnalyzeNoSpreadHasNoPeaks(t *testing.T) {
	logs := []model.MoodLog{logAt(1, 10, 3), logAt(2, 10, 3), logAt(1, 14, 3), logAt(2, 14, 3)}
	p := Analyze(logs, 14, refNow)
	if len(p.PeakHours) != 0 || len(p.LowHours) != 0 {
		t.Fatalf("expected no peak/low hours, got %v / %v", p.PeakHours, p.LowHours)
	}
	if p.Recommendations[len(p.Recommendations)-1] != "Log your energy a few more times a day to get more accurate recommendations." {
		t.Fatalf("expected log-more prompt, got %v", p.Recommendations)
	}
}

func TestAnalyzeWindowAndHourBounds(t *testing.T) {
	logs := []model.MoodLog{
		logAt(20, 10, 5),
		logAt(1, 3, 5),
		logAt(1, 10, 1),
	}
	p := Analyze(logs, 0, refNow)
	if len(p.HourlyAverages) != 1 || p.HourlyAverages[0].Hour != 10 {
		t.Fatalf("expected only hour 10, got %+v", p.HourlyAverages)
	}
	if p.HourlyAverages[0].AvgEnergy != 1 {
		t.Fatalf("old log leaked into window: %+v", p.HourlyAverages[0])
	}
	if p.OverallAverage != 3 {
		t.Fatalf("expected overall average over window logs (3), got %v", p.OverallAverage)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	p := Analyze(nil, 14, refNow)
	if p.OverallAverage != defaultAverage || len(p.HourlyAverages) != 0 {
		t.Fatalf("unexpected empty pattern: %+v", p)
	}
}

func TestFormatHourRanges(t *testing.T) {
	cases := []struct {
		in   []int
		want string
	}{
		{nil, ""},
		{[]int{9}, "9 AM"},
		{[]int{11, 9, 10}, "9 AM-11 AM"},
		{[]int{9, 10, 11, 15, 20, 21}, "9 AM-11 AM, 3 PM, 8 PM-9 PM"},
		{[]int{12, 13}, "12 PM-1 PM"},
	}
	for _, tc := range cases {
		if got := FormatHourRanges(tc.in); got != tc.want {
			t.Fatalf("FormatHourRanges(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecommendTimeOfDayPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		peaks []int
		want  string
		not   []string
	}{
		{name: "afternoon", peaks: []int{15}, want: "afternoons are strong", not: []string{"morning person", "evening person"}},
		{name: "evening", peaks: []int{20}, want: "evening person", not: []string{"morning person", "afternoons are strong"}},
		{name: "morning wins", peaks: []int{10, 15, 20}, want: "morning person", not: []string{"afternoons are strong", "evening person"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(recommend(Pattern{PeakHours: tt.peaks}, fewLogs), " | ")
			if !strings.Contains(joined, tt.want) {
				t.Fatalf("expected %q in %s", tt.want, joined)
			}
			for _, n := range tt.not {
				if strings.Contains(joined, n) {
					t.Fatalf("did not expect %q in %s", n, joined)
				}
			}
		})
	}
}
