package cognitive

import (
	"math/rand"
	"time"
)

// IndexPicker chooses an index in [0, n). *rand.Rand satisfies it.
type IndexPicker interface {
	Intn(n int) int
}

func NewRandomPicker() IndexPicker {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// FixedPicker always picks the same index, wrapped into range.
type FixedPicker int

func (p FixedPicker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(p) % n
	if i < 0 {
		i += n
	}
	return i
}

func pick(p IndexPicker, n int) int {
	i := p.Intn(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

var quotes = []string{
	"\"You don't have to see the whole staircase, just take the first step.\" - Martin Luther King Jr.",
	"\"Action is the antidote to despair.\" - Joan Baez",
	"\"Done is better than perfect.\" - Sheryl Sandberg",
	"\"Start where you are. Use what you have. Do what you can.\" - Arthur Ashe",
	"\"It does not matter how slowly you go as long as you do not stop.\" - Confucius",
	"\"The secret of getting ahead is getting started.\" - Mark Twain",
}

// Quote returns an encouragement quote chosen by picker.
func Quote(picker IndexPicker) string {
	if picker == nil {
		picker = NewRandomPicker()
	}
	return quotes[pick(picker, len(quotes))]
}
