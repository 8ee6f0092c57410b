package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("model: rating out of range")

const (
	MinRating = 1
	MaxRating = 5
)

// MoodLog is an explicit user check-in. It is never edited after creation.
type MoodLog struct {
	ID        string
	Mood      int
	Energy    int
	Timestamp time.Time
	Notes     string
	Triggers  []string
}

// NewMoodLog clamps mood and energy into 1..5.
func NewMoodLog(mood, energy int, at time.Time, notes string, triggers ...string) MoodLog {
	clean := make([]string, 0, len(triggers))
	for _, tr := range triggers {
		if tr = strings.TrimSpace(tr); tr != "" {
			clean = append(clean, tr)
		}
	}
	return MoodLog{
		ID:        uuid.NewString(),
		Mood:      ClampRating(mood),
		Energy:    ClampRating(energy),
		Timestamp: at,
		Notes:     strings.TrimSpace(notes),
		Triggers:  clean,
	}
}

func ClampRating(v int) int {
	return clampInt(v, MinRating, MaxRating)
}

func (l MoodLog) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("model: mood log id is required")
	}
	if l.Mood < MinRating || l.Mood > MaxRating {
		return fmt.Errorf("%w: mood %d", ErrInvalidRating, l.Mood)
	}
	if l.Energy < MinRating || l.Energy > MaxRating {
		return fmt.Errorf("%w: energy %d", ErrInvalidRating, l.Energy)
	}
	if l.Timestamp.IsZero() {
		return errors.New("model: mood log timestamp is required")
	}
	return nil
}

// ImpulseLog records an urge the user noticed, typically from extraction.
type ImpulseLog struct {
	ID        string
	Urge      string
	Intensity int
	Context   string
	ActedOn   bool
	CreatedAt time.Time
}

func NewImpulseLog(urge string, intensity int, context string, at time.Time) ImpulseLog {
	return ImpulseLog{
		ID:        uuid.NewString(),
		Urge:      strings.TrimSpace(urge),
		Intensity: clampInt(intensity, 1, 10),
		Context:   context,
		CreatedAt: at,
	}
}

// ThoughtDump is a free-form transcript plus the analysis that was shown for it.
type ThoughtDump struct {
	ID             string
	Transcript     string
	AnalysisJSON   string
	CrisisSeverity string
	Source         string
	CreatedAt      time.Time
}

func NewThoughtDump(transcript string, at time.Time) ThoughtDump {
	return ThoughtDump{
		ID:         uuid.NewString(),
		Transcript: strings.TrimSpace(transcript),
		CreatedAt:  at,
	}
}
