package energy

import (
	"fmt"
	"sort"

	"github.com/sandeepkv93/keel/internal/model"
)

type Quality string

const (
	QualityOptimal    Quality = "optimal"
	QualityGood       Quality = "good"
	QualityAcceptable Quality = "acceptable"
	QualityAvoid      Quality = "avoid"
)

func (q Quality) rank() int {
	switch q {
	case QualityOptimal:
		return 0
	case QualityGood:
		return 1
	case QualityAcceptable:
		return 2
	default:
		return 3
	}
}

type TimeRecommendation struct {
	Hour      int     `json:"hour"`
	Quality   Quality `json:"quality"`
	AvgEnergy float64 `json:"avgEnergy"`
	Reason    string  `json:"reason"`
}

// MinimumEnergy is the average energy a task of this resistance needs.
func MinimumEnergy(resistance int) float64 {
	switch {
	case resistance >= 7:
		return 4
	case resistance >= 4:
		return 3
	default:
		return 2
	}
}

// SuggestOptimalTimes ranks free, well-sampled hours for a task of the given
// resistance. Hours already covered by a block are left out.
func SuggestOptimalTimes(resistance int, p Pattern, existing []model.TimeBlock) []TimeRecommendation {
	minimum := MinimumEnergy(resistance)
	out := make([]TimeRecommendation, 0, len(p.HourlyAverages))
	for _, h := range p.HourlyAverages {
		if h.SampleCount < minSamples || covered(h.Hour, existing) {
			continue
		}
		peak := p.IsPeak(h.Hour)
		var q Quality
		var reason string
		switch {
		case (h.AvgEnergy >= 4 && resistance >= 7) || peak:
			q, reason = QualityOptimal, "One of your peak energy hours"
		case h.AvgEnergy >= minimum:
			q, reason = QualityGood, "Energy is usually high enough for this task"
		case h.AvgEnergy >= minimum-1:
			q, reason = QualityAcceptable, "Energy is a little low but workable"
		default:
			q, reason = QualityAvoid, "Energy is usually too low for this task"
		}
		out = append(out, TimeRecommendation{
			Hour:      h.Hour,
			Quality:   q,
			AvgEnergy: h.AvgEnergy,
			Reason:    fmt.Sprintf("%s (avg %.1f)", reason, h.AvgEnergy),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quality.rank() != out[j].Quality.rank() {
			return out[i].Quality.rank() < out[j].Quality.rank()
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

func covered(hour int, blocks []model.TimeBlock) bool {
	for _, b := range blocks {
		start, end, err := b.Span()
		if err != nil {
			continue
		}
		if hour >= start/60 && hour < end/60 {
			return true
		}
	}
	return false
}
