package storage

import (
	"time"

	"github.com/sandeepkv93/keel/internal/model"
)

// Setting keys stored in the settings table.
const (
	SettingAPIKey = "api_key"
	SettingModel  = "model"
)

type TaskListFilter struct {
	Status     model.TaskStatus
	ActiveOnly bool
	Limit      int
	Offset     int
}

type TimeBlockListFilter struct {
	Date   string
	TaskID string
	Limit  int
	Offset int
}

type MoodLogListFilter struct {
	Since  *time.Time
	Limit  int
	Offset int
}

type ListFilter struct {
	Limit  int
	Offset int
}
