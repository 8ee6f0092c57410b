package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidClock  = errors.New("model: invalid clock time")
	ErrInvalidDate   = errors.New("model: invalid block date")
	ErrBlockBounds   = errors.New("model: time block outside day bounds")
	ErrBlockInverted = errors.New("model: time block must start before it ends")
)

const (
	DateLayout = "2006-01-02"

	// DayStartMinute and DayEndMinute bound every block to 06:00-22:00.
	DayStartMinute = 6 * 60
	DayEndMinute   = 22 * 60
)

type BlockCategory string

const (
	BlockCategoryWork     BlockCategory = "work"
	BlockCategoryPersonal BlockCategory = "personal"
	BlockCategoryBreak    BlockCategory = "break"
)

type TimeBlock struct {
	ID        string
	Title     string
	StartTime string
	EndTime   string
	Date      string
	Color     string
	Completed bool
	TaskID    string
	Category  BlockCategory
}

func NewTimeBlock(title, date string, startMin, endMin int) TimeBlock {
	return TimeBlock{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		StartTime: FormatClock(startMin),
		EndTime:   FormatClock(endMin),
		Date:      date,
	}
}

// Span returns the block as minutes since midnight.
func (b TimeBlock) Span() (start, end int, err error) {
	start, err = ParseClock(b.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(b.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (b TimeBlock) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: block id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("model: block title is required")
	}
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, b.Date)
	}
	start, end, err := b.Span()
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("%w: %s-%s", ErrBlockInverted, b.StartTime, b.EndTime)
	}
	if start < DayStartMinute || end > DayEndMinute {
		return fmt.Errorf("%w: %s-%s", ErrBlockBounds, b.StartTime, b.EndTime)
	}
	return nil
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, herr := strconv.Atoi(s[:2])
	m, merr := strconv.Atoi(s[3:])
	if herr != nil || merr != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
