package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/keel/internal/model"
)

// Fixed-width fractional seconds keep lexical order equal to time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const taskColumns = `id, title, description, status, estimated_minutes, resistance, deadline, created_at, completed_at`

const blockColumns = `id, title, start_time, end_time, date, color, completed, task_id, category`

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection keeps the foreign_keys pragma in effect.
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.ID, in.Title, in.Description, string(in.Status), in.EstimatedMinutes, in.Resistance,
			nullTime(in.Deadline), mustTime(in.CreatedAt), nullTime(in.CompletedAt),
		); err != nil {
			return err
		}
		return insertSteps(ctx, tx, in.ID, in.Steps)
	})
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	if task.Steps, err = r.loadSteps(ctx, task.ID); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// FindTaskByPrefix resolves a short id as typed in the command palette.
func (r *SQLiteRepository) FindTaskByPrefix(ctx context.Context, prefix string) (model.Task, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return model.Task{}, ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM tasks WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return model.Task{}, err
	}
	ids := make([]string, 0, 2)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return model.Task{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return model.Task{}, err
	}
	switch len(ids) {
	case 0:
		return model.Task{}, ErrNotFound
	case 1:
		return r.GetTask(ctx, ids[0])
	default:
		return model.Task{}, ErrAmbiguousID
	}
}

// UpdateTask rewrites the task row and replaces its steps.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, status = ?, estimated_minutes = ?, resistance = ?, deadline = ?, completed_at = ?
			WHERE id = ?`,
			in.Title, in.Description, string(in.Status), in.EstimatedMinutes, in.Resistance,
			nullTime(in.Deadline), nullTime(in.CompletedAt), in.ID,
		)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_steps WHERE task_id = ?`, in.ID); err != nil {
			return err
		}
		return insertSteps(ctx, tx, in.ID, in.Steps)
	})
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "status IN (?, ?)")
		args = append(args, string(model.TaskStatusPending), string(model.TaskStatusInProgress))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Steps, err = r.loadSteps(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) loadSteps(ctx context.Context, taskID string) ([]model.TaskStep, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, completed, estimated_minutes
		FROM task_steps WHERE task_id = ? ORDER BY position ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TaskStep
	for rows.Next() {
		var step model.TaskStep
		var completed int
		if err := rows.Scan(&step.ID, &step.Text, &completed, &step.EstimatedMinutes); err != nil {
			return nil, err
		}
		step.Completed = completed == 1
		out = append(out, step)
	}
	return out, rows.Err()
}

func insertSteps(ctx context.Context, tx *sql.Tx, taskID string, steps []model.TaskStep) error {
	for i, step := range steps {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_steps (id, task_id, position, text, completed, estimated_minutes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			step.ID, taskID, i, step.Text, boolInt(step.Completed), step.EstimatedMinutes,
		); err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) CreateTimeBlock(ctx context.Context, in model.TimeBlock) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_blocks (`+blockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.StartTime, in.EndTime, in.Date, in.Color, boolInt(in.Completed),
		nullString(in.TaskID), string(in.Category),
	)
	return err
}

func (r *SQLiteRepository) GetTimeBlock(ctx context.Context, id string) (model.TimeBlock, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM time_blocks WHERE id = ?`, id)
	block, err := scanTimeBlock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TimeBlock{}, ErrNotFound
		}
		return model.TimeBlock{}, err
	}
	return block, nil
}

func (r *SQLiteRepository) UpdateTimeBlock(ctx context.Context, in model.TimeBlock) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_blocks
		SET title = ?, start_time = ?, end_time = ?, date = ?, color = ?, completed = ?, task_id = ?, category = ?
		WHERE id = ?`,
		in.Title, in.StartTime, in.EndTime, in.Date, in.Color, boolInt(in.Completed),
		nullString(in.TaskID), string(in.Category), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTimeBlock(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTimeBlocks(ctx context.Context, filter TimeBlockListFilter) ([]model.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, start_time ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TimeBlock, 0)
	for rows.Next() {
		block, scanErr := scanTimeBlock(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, block)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateMoodLog(ctx context.Context, in model.MoodLog) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	triggers := in.Triggers
	if triggers == nil {
		triggers = []string{}
	}
	encoded, err := json.Marshal(triggers)
	if err != nil {
		return fmt.Errorf("encode triggers: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mood_logs (id, mood, energy, logged_at, notes, triggers)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Mood, in.Energy, mustTime(in.Timestamp), in.Notes, string(encoded),
	)
	return err
}

func (r *SQLiteRepository) ListMoodLogs(ctx context.Context, filter MoodLogListFilter) ([]model.MoodLog, error) {
	query := `SELECT id, mood, energy, logged_at, notes, triggers FROM mood_logs`
	args := make([]any, 0, 3)
	if filter.Since != nil {
		query += ` WHERE logged_at >= ?`
		args = append(args, mustTime(*filter.Since))
	}
	query += ` ORDER BY logged_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MoodLog, 0)
	for rows.Next() {
		item, scanErr := scanMoodLog(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateThoughtDump(ctx context.Context, in model.ThoughtDump) error {
	if strings.TrimSpace(in.ID) == "" || in.CreatedAt.IsZero() {
		return fmt.Errorf("%w: thought dump requires id and created_at", ErrInvalidRecord)
	}
	severity := in.CrisisSeverity
	if severity == "" {
		severity = "none"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO thought_dumps (id, transcript, analysis_json, crisis_severity, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Transcript, in.AnalysisJSON, severity, in.Source, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetThoughtDump(ctx context.Context, id string) (model.ThoughtDump, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, transcript, analysis_json, crisis_severity, source, created_at
		FROM thought_dumps WHERE id = ?`, id)
	item, err := scanThoughtDump(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ThoughtDump{}, ErrNotFound
		}
		return model.ThoughtDump{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) ListThoughtDumps(ctx context.Context, filter ListFilter) ([]model.ThoughtDump, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, transcript, analysis_json, crisis_severity, source, created_at
		FROM thought_dumps ORDER BY created_at DESC` + applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ThoughtDump, 0)
	for rows.Next() {
		item, scanErr := scanThoughtDump(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateImpulseLog(ctx context.Context, in model.ImpulseLog) error {
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.Urge) == "" {
		return fmt.Errorf("%w: impulse log requires id and urge", ErrInvalidRecord)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO impulse_logs (id, urge, intensity, context, acted_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Urge, in.Intensity, in.Context, boolInt(in.ActedOn), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateImpulseLog(ctx context.Context, in model.ImpulseLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE impulse_logs SET urge = ?, intensity = ?, context = ?, acted_on = ? WHERE id = ?`,
		in.Urge, in.Intensity, in.Context, boolInt(in.ActedOn), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListImpulseLogs(ctx context.Context, filter ListFilter) ([]model.ImpulseLog, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, urge, intensity, context, acted_on, created_at
		FROM impulse_logs ORDER BY created_at DESC` + applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ImpulseLog, 0)
	for rows.Next() {
		item, scanErr := scanImpulseLog(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return mustTime(*v)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var status string
	var deadline sql.NullString
	var created string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &status, &out.EstimatedMinutes, &out.Resistance, &deadline, &created, &completed); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	deadlineAt, err := parseNullableTime(deadline)
	if err != nil {
		return model.Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return model.Task{}, err
	}
	out.Status = model.TaskStatus(status)
	out.CreatedAt = createdAt
	out.Deadline = deadlineAt
	out.CompletedAt = completedAt
	return out, nil
}

func scanTimeBlock(s scanner) (model.TimeBlock, error) {
	var out model.TimeBlock
	var completed int
	var taskID sql.NullString
	var category string
	if err := s.Scan(&out.ID, &out.Title, &out.StartTime, &out.EndTime, &out.Date, &out.Color, &completed, &taskID, &category); err != nil {
		return model.TimeBlock{}, err
	}
	out.Completed = completed == 1
	out.TaskID = taskID.String
	out.Category = model.BlockCategory(category)
	return out, nil
}

func scanMoodLog(s scanner) (model.MoodLog, error) {
	var out model.MoodLog
	var logged string
	var triggers string
	if err := s.Scan(&out.ID, &out.Mood, &out.Energy, &logged, &out.Notes, &triggers); err != nil {
		return model.MoodLog{}, err
	}
	loggedAt, err := parseRequiredTime(logged)
	if err != nil {
		return model.MoodLog{}, err
	}
	if triggers != "" {
		if err := json.Unmarshal([]byte(triggers), &out.Triggers); err != nil {
			return model.MoodLog{}, fmt.Errorf("decode triggers: %w", err)
		}
	}
	out.Timestamp = loggedAt
	return out, nil
}

func scanThoughtDump(s scanner) (model.ThoughtDump, error) {
	var out model.ThoughtDump
	var created string
	if err := s.Scan(&out.ID, &out.Transcript, &out.AnalysisJSON, &out.CrisisSeverity, &out.Source, &created); err != nil {
		return model.ThoughtDump{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.ThoughtDump{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func scanImpulseLog(s scanner) (model.ImpulseLog, error) {
	var out model.ImpulseLog
	var acted int
	var created string
	if err := s.Scan(&out.ID, &out.Urge, &out.Intensity, &out.Context, &acted, &created); err != nil {
		return model.ImpulseLog{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.ImpulseLog{}, err
	}
	out.ActedOn = acted == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
