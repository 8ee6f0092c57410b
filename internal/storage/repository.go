package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/keel/internal/model"
)

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrAmbiguousID   = errors.New("storage: id prefix matches more than one record")
	ErrInvalidRecord = errors.New("storage: invalid record")
)

type Repository interface {
	CreateTask(ctx context.Context, in model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	FindTaskByPrefix(ctx context.Context, prefix string) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)

	CreateTimeBlock(ctx context.Context, in model.TimeBlock) error
	GetTimeBlock(ctx context.Context, id string) (model.TimeBlock, error)
	UpdateTimeBlock(ctx context.Context, in model.TimeBlock) error
	DeleteTimeBlock(ctx context.Context, id string) error
	ListTimeBlocks(ctx context.Context, filter TimeBlockListFilter) ([]model.TimeBlock, error)

	CreateMoodLog(ctx context.Context, in model.MoodLog) error
	ListMoodLogs(ctx context.Context, filter MoodLogListFilter) ([]model.MoodLog, error)

	CreateThoughtDump(ctx context.Context, in model.ThoughtDump) error
	GetThoughtDump(ctx context.Context, id string) (model.ThoughtDump, error)
	ListThoughtDumps(ctx context.Context, filter ListFilter) ([]model.ThoughtDump, error)

	CreateImpulseLog(ctx context.Context, in model.ImpulseLog) error
	UpdateImpulseLog(ctx context.Context, in model.ImpulseLog) error
	ListImpulseLogs(ctx context.Context, filter ListFilter) ([]model.ImpulseLog, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
