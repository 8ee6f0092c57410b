// Package crisis flags self-harm and hopelessness language so callers can
// surface safety resources before any other analysis runs.
package crisis

import (
	"regexp"
	"strings"
)

type Severity string

const (
	SeverityNone      Severity = "none"
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityImmediate Severity = "immediate"
)

type Result struct {
	IsCrisis        bool     `json:"isCrisis"`
	Severity        Severity `json:"severity"`
	MatchedPatterns []string `json:"matchedPatterns"`
}

type tier struct {
	severity Severity
	patterns []*regexp.Regexp
}

// apos matches straight and curly apostrophes as well as none at all.
const apos = `['’]?`

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// tiers are checked in order; the first tier with any match decides severity.
var tiers = []tier{
	{
		severity: SeverityImmediate,
		patterns: compile(
			`\bkill(ing)?\s+myself\b`,
			`\bend(ing)?\s+(my\s+(own\s+)?life|it\s+all)\b`,
			`\btake\s+my\s+(own\s+)?life\b`,
			`\b(don`+apos+`t|do\s+not)\s+want\s+to\s+(be\s+alive|live|exist)\b`,
			`\b(want|going|plan(ning)?)\s+to\s+die\b`,
			`\bsuicide\s+(plan|note)\b`,
			`\bbetter\s+off\s+dead\b`,
			`\bno\s+longer\s+want\s+to\s+live\b`,
		),
	},
	{
		severity: SeverityHigh,
		patterns: compile(
			`\bsuicid(e|al)\b`,
			`\bself[\s-]?harm(ing)?\b`,
			`\b(hurt|hurting|cut|cutting|harm|harming)\s+myself\b`,
			`\bno\s+reason\s+to\s+(live|go\s+on)\b`,
			`\bwish\s+i\s+(was|were)\s+(dead|never\s+born)\b`,
			`\bcan`+apos+`t\s+go\s+on\b`,
			`\beveryone\s+would\s+be\s+better\s+off\s+without\s+me\b`,
		),
	},
	{
		severity: SeverityMedium,
		patterns: compile(
			`\bhopeless(ness)?\b`,
			`\bworthless\b`,
			`\b(there`+apos+`s\s+)?no\s+point\s+(in\s+)?(anything|trying|living)\b`,
			`\bnobody\s+would\s+(care|notice|miss\s+me)\b`,
			`\bcan`+apos+`t\s+take\s+(it|this)\s+any\s?more\b`,
			`\b(i`+apos+`m|i\s+am)\s+a\s+burden\b`,
			`\bgive\s+up\s+on\s+everything\b`,
			`\btrapped\b`,
		),
	},
}

// minTextLen is the shortest trimmed input worth scanning.
const minTextLen = 3

// Detect classifies text against the severity tiers. It is pure and safe to
// call before any remote request.
func Detect(text string) Result {
	res := Result{Severity: SeverityNone, MatchedPatterns: []string{}}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextLen {
		return res
	}

	for _, t := range tiers {
		seen := make(map[string]bool)
		for _, p := range t.patterns {
			for _, m := range p.FindAllString(trimmed, -1) {
				key := strings.ToLower(m)
				if seen[key] {
					continue
				}
				seen[key] = true
				res.MatchedPatterns = append(res.MatchedPatterns, key)
			}
		}
		if len(res.MatchedPatterns) > 0 {
			res.Severity = t.severity
			res.IsCrisis = true
			return res
		}
	}
	return res
}

// Resources returns the safety lines to surface for a given severity.
func Resources(sev Severity) []string {
	switch sev {
	case SeverityImmediate, SeverityHigh:
		return []string{
			"If you are in immediate danger, call your local emergency number.",
			"Call or text 988 (US) to reach the Suicide & Crisis Lifeline.",
			"Text HOME to 741741 to reach the Crisis Text Line.",
		}
	case SeverityMedium, SeverityLow:
		return []string{
			"It might help to talk to someone you trust today.",
			"Call or text 988 (US) any time you need to talk to someone.",
		}
	default:
		return nil
	}
}
