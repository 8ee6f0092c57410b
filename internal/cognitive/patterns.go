package cognitive

import (
	"regexp"
	"strings"
)

type DistortionType string

const (
	AllOrNothing        DistortionType = "All-or-Nothing Thinking"
	Catastrophizing     DistortionType = "Catastrophizing"
	MindReading         DistortionType = "Mind Reading"
	FortuneTelling      DistortionType = "Fortune Telling"
	ShouldStatements    DistortionType = "Should Statements"
	Labeling            DistortionType = "Labeling"
	EmotionalReasoning  DistortionType = "Emotional Reasoning"
	Personalization     DistortionType = "Personalization"
	DiscountingPositive DistortionType = "Discounting the Positive"
	Overgeneralization  DistortionType = "Overgeneralization"
)

// category is one row of the distortion table. Keywords are matched as whole
// words, case-insensitively.
type category struct {
	kind         DistortionType
	keywords     []*regexp.Regexp
	explanation  string
	realityCheck string
	reframe      string
	step         string
}

func words(kws ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(kws))
	for _, kw := range kws {
		// curly apostrophes are normalised before matching
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return out
}

var categories = []category{
	{
		kind:         AllOrNothing,
		keywords:     words("always", "never", "everything", "nothing", "completely", "totally", "entirely", "perfect", "ruined"),
		explanation:  "Seeing things in black-and-white terms, with no middle ground.",
		realityCheck: "Is this really all-or-nothing, or is there a middle ground you might be missing?",
		reframe:      "Most situations fall somewhere in between. Partial progress still counts.",
		step:         "Write down one thing that went partly right today.",
	},
	{
		kind:         Catastrophizing,
		keywords:     words("disaster", "terrible", "horrible", "worst", "catastrophe", "awful", "end of the world", "can't handle", "unbearable"),
		explanation:  "Expecting the worst possible outcome and treating it as likely.",
		realityCheck: "What is the most likely outcome, not just the worst one?",
		reframe:      "This feels huge right now, but I have handled hard things before.",
		step:         "List three outcomes: the worst, the best, and the most likely.",
	},
	{
		kind:         MindReading,
		keywords:     words("they think", "he thinks", "she thinks", "everyone thinks", "people think", "must think", "probably thinks", "judging me", "hates me", "hate me"),
		explanation:  "Assuming you know what others are thinking without evidence.",
		realityCheck: "What evidence do you actually have about what they are thinking?",
		reframe:      "I can't know what others think unless I ask. My guess is not a fact.",
		step:         "Ask one person directly instead of guessing what they think.",
	},
	{
		kind:         FortuneTelling,
		keywords:     words("will never", "never going to", "going to fail", "will fail", "won't work", "bound to", "is doomed", "going to go wrong"),
		explanation:  "Predicting a negative future as if it were already decided.",
		realityCheck: "How many times have your negative predictions actually come true?",
		reframe:      "The future isn't written yet. I can influence what happens next.",
		step:         "Pick one small action that makes a better outcome more likely.",
	},
	{
		kind:         ShouldStatements,
		keywords:     words("should", "shouldn't", "must", "ought to", "supposed to", "have to"),
		explanation:  "Holding rigid rules about how you or others must behave.",
		realityCheck: "Who made this rule, and is it helping you right now?",
		reframe:      "I'd like to do this, and it's okay if it doesn't happen perfectly.",
		step:         "Rewrite one \"should\" as \"I would like to\" and notice the difference.",
	},
	{
		kind:         Labeling,
		keywords:     words("i'm such a", "i am such a", "i'm a", "i am a", "idiot", "loser", "failure", "stupid", "useless", "pathetic"),
		explanation:  "Attaching a global negative label to yourself based on one event.",
		realityCheck: "Would you call a friend this name for the same situation?",
		reframe:      "I made a mistake. That is something I did, not who I am.",
		step:         "Describe the specific behaviour instead of labelling yourself.",
	},
	{
		kind:         EmotionalReasoning,
		keywords:     words("i feel like", "i feel that", "feels like", "because i feel", "i just know"),
		explanation:  "Treating feelings as proof of facts.",
		realityCheck: "Is this feeling a fact, or is it one piece of information?",
		reframe:      "Feelings are real, but they are not always accurate forecasts.",
		step:         "Write the feeling and the facts side by side in two columns.",
	},
	{
		kind:         Personalization,
		keywords:     words("my fault", "because of me", "i caused", "i'm to blame", "blame myself", "i ruined", "let everyone down"),
		explanation:  "Taking responsibility for events outside your control.",
		realityCheck: "What other factors contributed to this besides you?",
		reframe:      "Many things shaped this outcome. I'm responsible only for my part.",
		step:         "Draw a responsibility pie chart with every factor involved.",
	},
	{
		kind:         DiscountingPositive,
		keywords:     words("yes but", "yeah but", "doesn't count", "just luck", "got lucky", "anyone could", "not a big deal", "only because"),
		explanation:  "Dismissing positive experiences as if they don't matter.",
		realityCheck: "If this good thing happened to a friend, would you dismiss it too?",
		reframe:      "I'm allowed to take credit for what went well.",
		step:         "Note one win from today and let it count.",
	},
	{
		kind:         Overgeneralization,
		keywords:     words("every time", "nobody", "no one", "everyone", "everybody", "all the time", "this always happens", "never works"),
		explanation:  "Drawing a sweeping conclusion from a single event.",
		realityCheck: "Can you think of a time when this was not true?",
		reframe:      "One event is not a pattern. This time is not every time.",
		step:         "Find one counter-example from your own recent history.",
	},
}

var categoryByType = func() map[DistortionType]category {
	m := make(map[DistortionType]category, len(categories))
	for _, c := range categories {
		m[c.kind] = c
	}
	return m
}()

// Types lists the distortion categories in table order.
func Types() []DistortionType {
	out := make([]DistortionType, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.kind)
	}
	return out
}

func (c category) matches(sentence string) bool {
	for _, kw := range c.keywords {
		if kw.MatchString(sentence) {
			return true
		}
	}
	return false
}

var sentenceDelims = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits on '.', '!' and '?', dropping empty pieces.
func SplitSentences(text string) []string {
	parts := sentenceDelims.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}
