// Package extract pulls actionable tasks and impulsive urges out of a
// free-form transcript using ordered phrase tables.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandeepkv93/keel/internal/cognitive"
)

const (
	MaxTasks = 10
	MaxUrges = 5

	minTitleLen = 3
	maxTitleLen = 100

	VoiceContext = "Detected from voice input"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Task struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
}

type Urge struct {
	Urge      string `json:"urge"`
	Intensity int    `json:"intensity"`
	Context   string `json:"context,omitempty"`
}

type Items struct {
	Tasks []Task `json:"tasks"`
	Urges []Urge `json:"urges"`
}

// taskTriggers are tried in order; the first capture wins.
var taskTriggers = compile(
	`\bremind\s+me\s+to\s+(.+)`,
	`\bdon't\s+(?:let\s+me\s+)?forget\s+to\s+(.+)`,
	`^to-?do\b:?\s*(.+)`,
	`\bto-?do\s*:\s*(.+)`,
	`\bi\s+(?:really\s+)?need\s+to\s+(.+)`,
	`\bi\s+(?:really\s+)?have\s+to\s+(.+)`,
	`\bi\s+(?:really\s+)?(?:gotta|got\s+to)\s+(.+)`,
	`\bi\s+must\s+(.+)`,
	`\bi\s+should\s+(?:probably\s+)?(.+)`,
	`\bi\s+(?:want|plan)\s+to\s+((?:finish|start|call|email|book|schedule|clean|pay|write|send)\b.*)`,
)

var urgencyWords = regexp.MustCompile(`(?i)\b(urgent(ly)?|asap|immediately|right\s+away|as\s+soon\s+as\s+possible)\b`)

type urgeRule struct {
	name      string
	pattern   *regexp.Regexp
	intensity int
}

// urgeRules are tried in order; the first match per sentence wins.
var urgeRules = []urgeRule{
	{"shopping", regexp.MustCompile(`(?i)\b((want|wanna|tempted|urge)\s+to\s+(buy|order|shop)|impulse\s+(buy|purchase)|add(ed)?\s+(it\s+)?to\s+(my\s+)?cart)\b`), 6},
	{"binge", regexp.MustCompile(`(?i)\b(binge|eat\s+(a\s+|the\s+)?whole|stuff\s+my\s+face|order\s+(pizza|takeout|fast\s+food))\b`), 7},
	{"tempted", regexp.MustCompile(`(?i)\btempted\s+to\b`), 6},
	{"aggressive", regexp.MustCompile(`(?i)\b(want|wanna|urge)\s+to\s+(punch|hit|smash|throw|scream\s+at|yell\s+at)\b`), 8},
	{"craving", regexp.MustCompile(`(?i)\bcrav(e|es|ing|ings)\b`), 7},
	{"cant-resist", regexp.MustCompile(`(?i)\bcan't\s+resist\b`), 8},
	{"social-media", regexp.MustCompile(`(?i)\b(check|checking|scroll|scrolling|open)\s+(my\s+)?(phone|instagram|tiktok|twitter|facebook|reddit|social\s+media)\b`), 5},
	{"contact", regexp.MustCompile(`(?i)\b(want|wanna|urge)\s+to\s+(text|call|message|dm)\b.*\b(shouldn't|even\s+though|probably\s+not|bad\s+idea)\b`), 6},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// ExtractLocally is the pattern-based fallback for remote extraction. It
// never returns two tasks whose titles differ only in case.
func ExtractLocally(transcript string) Items {
	out := Items{Tasks: []Task{}, Urges: []Urge{}}
	text := strings.NewReplacer("’", "'", "‘", "'").Replace(transcript)
	seen := make(map[string]bool)

	for _, sentence := range cognitive.SplitSentences(text) {
		if len(out.Tasks) < MaxTasks {
			if title, ok := matchTask(sentence); ok {
				key := strings.ToLower(title)
				if !seen[key] {
					seen[key] = true
					priority := PriorityMedium
					if urgencyWords.MatchString(sentence) {
						priority = PriorityHigh
					}
					out.Tasks = append(out.Tasks, Task{
						Title:       title,
						Description: sentence,
						Priority:    priority,
					})
				}
			}
		}
		if len(out.Urges) < MaxUrges {
			for _, rule := range urgeRules {
				if rule.pattern.MatchString(sentence) {
					out.Urges = append(out.Urges, Urge{
						Urge:      sentence,
						Intensity: rule.intensity,
						Context:   VoiceContext,
					})
					break
				}
			}
		}
	}
	return out
}

func matchTask(sentence string) (string, bool) {
	for _, trigger := range taskTriggers {
		m := trigger.FindStringSubmatch(sentence)
		if m == nil {
			continue
		}
		title := cleanTitle(m[1])
		if utf8.RuneCountInString(title) < minTitleLen {
			return "", false
		}
		return title, true
	}
	return "", false
}

var trailingNoise = regexp.MustCompile(`(?i)[\s,;:]+(asap|urgently|right\s+away|immediately|please)?[\s,;:]*$`)

func cleanTitle(raw string) string {
	title := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	title = strings.TrimSpace(trailingNoise.ReplaceAllString(title, ""))
	title = strings.Trim(title, `"'`)
	if utf8.RuneCountInString(title) > maxTitleLen {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:maxTitleLen]))
	}
	return capitalize(title)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
