package extract

import (
	"strings"
	"testing"
)

func TestExtractLocallyTasks(t *testing.T) {
	items := ExtractLocally("I need to email the landlord. Remind me to water the plants! I have to renew my passport ASAP.")
	if len(items.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %+v", items.Tasks)
	}
	want := []string{"Email the landlord", "Water the plants", "Renew my passport"}
	for i, w := range want {
		if items.Tasks[i].Title != w {
			t.Fatalf("task[%d] title = %q, want %q", i, items.Tasks[i].Title, w)
		}
	}
	if items.Tasks[2].Priority != PriorityHigh {
		t.Fatalf("expected high priority for ASAP task, got %s", items.Tasks[2].Priority)
	}
	if items.Tasks[0].Priority != PriorityMedium {
		t.Fatalf("expected medium priority, got %s", items.Tasks[0].Priority)
	}
}

func TestExtractLocallyDedupesTitlesCaseInsensitively(t *testing.T) {
	items := ExtractLocally("I need to call mom. I have to CALL MOM. Remind me to Call Mom.")
	if len(items.Tasks) != 1 {
		t.Fatalf("expected one deduped task, got %+v", items.Tasks)
	}
	seen := map[string]bool{}
	for _, task := range items.Tasks {
		key := strings.ToLower(task.Title)
		if seen[key] {
			t.Fatalf("duplicate title %q", task.Title)
		}
		seen[key] = true
	}
}

func TestExtractLocallyRejectsShortTitles(t *testing.T) {
	items := ExtractLocally("I need to go. I have to do it")
	for _, task := range items.Tasks {
		if len(task.Title) < minTitleLen {
			t.Fatalf("title too short: %q", task.Title)
		}
	}
	if len(items.Tasks) != 1 || items.Tasks[0].Title != "Do it" {
		t.Fatalf("unexpected tasks: %+v", items.Tasks)
	}
}

func TestExtractLocallyTruncatesLongTitles(t *testing.T) {
	items := ExtractLocally("I need to " + strings.Repeat("x", 250))
	if len(items.Tasks) != 1 || len([]rune(items.Tasks[0].Title)) > maxTitleLen {
		t.Fatalf("expected one bounded task, got %+v", items.Tasks)
	}
}

func TestExtractLocallyCapsTasks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("I need to finish report number ")
		b.WriteString(strings.Repeat("i", i+1))
		b.WriteString(". ")
	}
	items := ExtractLocally(b.String())
	if len(items.Tasks) != MaxTasks {
		t.Fatalf("expected %d tasks, got %d", MaxTasks, len(items.Tasks))
	}
}

func TestExtractLocallyUrges(t *testing.T) {
	items := ExtractLocally("I really want to buy those new headphones. I'm craving sugar so bad. I keep wanting to check my phone. I can't resist the cookies.")
	if len(items.Urges) != 4 {
		t.Fatalf("expected 4 urges, got %+v", items.Urges)
	}
	wantIntensity := []int{6, 7, 5, 8}
	for i, w := range wantIntensity {
		if items.Urges[i].Intensity != w {
			t.Fatalf("urge[%d] intensity = %d, want %d", i, items.Urges[i].Intensity, w)
		}
		if items.Urges[i].Context != VoiceContext {
			t.Fatalf("urge[%d] unexpected context %q", i, items.Urges[i].Context)
		}
	}
	if items.Urges[0].Urge != "I really want to buy those new headphones" {
		t.Fatalf("expected full sentence as urge text, got %q", items.Urges[0].Urge)
	}
}

func TestExtractLocallyFirstUrgeRuleWins(t *testing.T) {
	items := ExtractLocally("I'm tempted to buy a whole pizza")
	if len(items.Urges) != 1 || items.Urges[0].Intensity != 6 {
		t.Fatalf("expected shopping rule to win, got %+v", items.Urges)
	}
}

func TestExtractLocallyCapsUrges(t *testing.T) {
	items := ExtractLocally(strings.Repeat("I'm craving chips. ", 8))
	if len(items.Urges) != MaxUrges {
		t.Fatalf("expected %d urges, got %d", MaxUrges, len(items.Urges))
	}
}

func TestExtractLocallyEmpty(t *testing.T) {
	items := ExtractLocally("")
	if items.Tasks == nil || items.Urges == nil || len(items.Tasks)+len(items.Urges) != 0 {
		t.Fatalf("expected empty non-nil items, got %+v", items)
	}
}

func TestExtractLocallyTriggerVariants(t *testing.T) {
	cases := map[string]string{
		"Todo: buy milk":                       "Buy milk",
		"to-do pick up dry cleaning":           "Pick up dry cleaning",
		"Don’t forget to submit the timesheet": "Submit the timesheet",
		"I gotta book the dentist":             "Book the dentist",
		"I want to schedule a haircut":         "Schedule a haircut",
		"Also todo: buy milk.":                 "Buy milk",
		"I need to \xff fix the sink":          "Fix the sink",
	}
	for in, want := range cases {
		items := ExtractLocally(in)
		if len(items.Tasks) != 1 || items.Tasks[0].Title != want {
			t.Fatalf("%q: expected %q, got %+v", in, want, items.Tasks)
		}
	}
}
