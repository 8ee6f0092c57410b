package model

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 540, true},
		{"22:00", 1320, true},
		{"06:15", 375, true},
		{"24:00", 1440, true},
		{"9:00", 0, false},
		{"25:00", 0, false},
		{"10:75", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidClock) {
				t.Fatalf("parse %q: expected ErrInvalidClock, got %v", tc.in, err)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("parse %q = %d, want %d", tc.in, got, tc.want)
		}
		if FormatClock(got) != tc.in {
			t.Fatalf("format %d = %q, want %q", got, FormatClock(got), tc.in)
		}
	}
}

func TestTimeBlockValidate(t *testing.T) {
	block := NewTimeBlock("Deep work", "2026-02-09", 540, 600)
	if err := block.Validate(); err != nil {
		t.Fatalf("expected valid block, got %v", err)
	}

	inverted := NewTimeBlock("Backwards", "2026-02-09", 600, 540)
	if err := inverted.Validate(); !errors.Is(err, ErrBlockInverted) {
		t.Fatalf("expected ErrBlockInverted, got %v", err)
	}

	early := NewTimeBlock("Too early", "2026-02-09", 300, 400)
	if err := early.Validate(); !errors.Is(err, ErrBlockBounds) {
		t.Fatalf("expected ErrBlockBounds, got %v", err)
	}

	badDate := NewTimeBlock("Bad date", "02/09/2026", 540, 600)
	if err := badDate.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
