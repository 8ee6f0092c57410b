// Package energy turns mood/energy check-ins into hour-of-day patterns and
// scheduling hints.
package energy

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

const (
	DefaultWindowDays = 14

	FirstHour = 6
	LastHour  = 22

	// minSamples is how many check-ins an hour needs before it can be
	// called a peak or a low.
	minSamples = 2

	defaultAverage = 3.0
	fewLogs        = 5
)

type HourlyAverage struct {
	Hour        int     `json:"hour"`
	AvgEnergy   float64 `json:"avgEnergy"`
	SampleCount int     `json:"sampleCount"`
}

type Pattern struct {
	HourlyAverages  []HourlyAverage `json:"hourlyAverages"`
	PeakHours       []int           `json:"peakHours"`
	LowHours        []int           `json:"lowHours"`
	Recommendations []string        `json:"recommendations"`
	OverallAverage  float64         `json:"overallAverage"`
}

// Average returns the hourly entry for hour, if any samples exist.
func (p Pattern) Average(hour int) (HourlyAverage, bool) {
	for _, h := range p.HourlyAverages {
		if h.Hour == hour {
			return h, true
		}
	}
	return HourlyAverage{}, false
}

func (p Pattern) IsPeak(hour int) bool {
	return containsHour(p.PeakHours, hour)
}

// Analyze aggregates logs from the last days (DefaultWindowDays when days is
// not positive) into hourly averages with percentile-based peak/low hours.
// Hours are read in now's location.
func Analyze(logs []model.MoodLog, days int, now time.Time) Pattern {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := now.AddDate(0, 0, -days)

	buckets := make(map[int][]int)
	total, count := 0, 0
	for _, l := range logs {
		if l.Timestamp.Before(cutoff) || l.Timestamp.After(now) {
			continue
		}
		total += l.Energy
		count++
		h := l.Timestamp.In(now.Location()).Hour()
		if h < FirstHour || h > LastHour {
			continue
		}
		buckets[h] = append(buckets[h], l.Energy)
	}

	p := Pattern{
		HourlyAverages:  []HourlyAverage{},
		PeakHours:       []int{},
		LowHours:        []int{},
		Recommendations: []string{},
		OverallAverage:  defaultAverage,
	}
	if count > 0 {
		p.OverallAverage = round1(float64(total) / float64(count))
	}

	for h := FirstHour; h <= LastHour; h++ {
		samples := buckets[h]
		if len(samples) == 0 {
			continue
		}
		sum := 0
		for _, v := range samples {
			sum += v
		}
		p.HourlyAverages = append(p.HourlyAverages, HourlyAverage{
			Hour:        h,
			AvgEnergy:   float64(sum) / float64(len(samples)),
			SampleCount: len(samples),
		})
	}

	if len(p.HourlyAverages) > 0 {
		avgs := make([]float64, 0, len(p.HourlyAverages))
		for _, h := range p.HourlyAverages {
			avgs = append(avgs, h.AvgEnergy)
		}
		sort.Float64s(avgs)
		p75 := percentile(avgs, 0.75)
		p25 := percentile(avgs, 0.25)
		// With no spread every hour would be both peak and low.
		if p75 > p25 {
			for _, h := range p.HourlyAverages {
				if h.SampleCount < minSamples {
					continue
				}
				switch {
				case h.AvgEnergy >= p75:
					p.PeakHours = append(p.PeakHours, h.Hour)
				case h.AvgEnergy <= p25:
					p.LowHours = append(p.LowHours, h.Hour)
				}
			}
		}
	}

	p.Recommendations = recommend(p, count)
	return p
}

// percentile uses the nearest-rank rule on sorted values.
func percentile(sorted []float64, q float64) float64 {
	idx := int(math.Floor(q * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func recommend(p Pattern, logCount int) []string {
	out := make([]string, 0, 4)
	if len(p.PeakHours) > 0 {
		out = append(out, fmt.Sprintf("Your energy peaks around %s. Schedule your most dreaded tasks then.", FormatHourRanges(p.PeakHours)))
	}
	if len(p.LowHours) > 0 {
		out = append(out, fmt.Sprintf("Your energy tends to dip around %s. Keep these hours for routine or low-effort tasks.", FormatHourRanges(p.LowHours)))
	}
	switch {
	case anyInRange(p.PeakHours, 9, 11):
		out = append(out, "You're a morning person! Tackle hard tasks before lunch.")
	case anyInRange(p.PeakHours, 14, 17):
		out = append(out, "Your afternoons are strong. Save demanding work for after lunch.")
	case anyInRange(p.PeakHours, 19, 22):
		out = append(out, "You're an evening person. Protect your evenings for focused work.")
	}
	if logCount < fewLogs {
		out = append(out, "Log your energy a few more times a day to get more accurate recommendations.")
	}
	return out
}

// FormatHourRanges renders hours as "9 AM-11 AM, 3 PM", merging consecutive
// hours into ranges.
func FormatHourRanges(hours []int) string {
	if len(hours) == 0 {
		return ""
	}
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			parts = append(parts, FormatHour(start))
		} else {
			parts = append(parts, FormatHour(start)+"-"+FormatHour(prev))
		}
	}
	for _, h := range sorted[1:] {
		if h == prev {
			continue
		}
		if h == prev+1 {
			prev = h
			continue
		}
		flush()
		start, prev = h, h
	}
	flush()
	return strings.Join(parts, ", ")
}

func FormatHour(h int) string {
	suffix := "AM"
	if h%24 >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d %s", display, suffix)
}

func anyInRange(hours []int, lo, hi int) bool {
	for _, h := range hours {
		if h >= lo && h <= hi {
			return true
		}
	}
	return false
}

func containsHour(hours []int, h int) bool {
	for _, x := range hours {
		if x == h {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
