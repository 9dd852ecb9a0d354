package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

var _ domain.HabitRepository = (*SQLHabitRepository)(nil)

// SQLHabitRepository stores habits in sqlite or postgres. Completion days
// live in their own table, keyed by habit and day.
type SQLHabitRepository struct {
	db *sqlx.DB
}

func NewSQLHabitRepository(db *sqlx.DB) *SQLHabitRepository {
	return &SQLHabitRepository{db: db}
}

type habitRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Recurrence       string          `db:"recurrence"`
	ActiveWeekdays   string          `db:"active_weekdays"`
	ReminderEnabled  bool            `db:"reminder_enabled"`
	ReminderTime     sql.NullString  `db:"reminder_time"`
	ReminderWeekdays string          `db:"reminder_weekdays"`
	GoalType         string          `db:"goal_type"`
	TargetValue      sql.NullFloat64 `db:"target_value"`
	Unit             sql.NullString  `db:"unit"`
	SymbolID         sql.NullString  `db:"symbol_id"`
	ColorHex         sql.NullString  `db:"color_hex"`
	SortOrder        int             `db:"sort_order"`
	Version          int             `db:"version"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type completionRow struct {
	HabitID string `db:"habit_id"`
	Day     string `db:"day"`
}

const habitColumns = `id, name, recurrence, active_weekdays, reminder_enabled, reminder_time,
    reminder_weekdays, goal_type, target_value, unit, symbol_id, color_hex,
    sort_order, version, created_at, updated_at`

const insertHabitQuery = `INSERT INTO habits (` + habitColumns + `) VALUES (
    :id, :name, :recurrence, :active_weekdays, :reminder_enabled, :reminder_time,
    :reminder_weekdays, :goal_type, :target_value, :unit, :symbol_id, :color_hex,
    :sort_order, :version, :created_at, :updated_at)`

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func toRow(h *domain.Habit) (*habitRow, error) {
	active, err := json.Marshal(weekdaysOrEmpty(h.ActiveWeekdays))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal weekdays: %w", err)
	}
	reminderDays, err := json.Marshal(weekdaysOrEmpty(h.Reminder.Weekdays))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder weekdays: %w", err)
	}

	row := &habitRow{
		ID:               h.ID,
		Name:             h.Name,
		Recurrence:       string(h.Recurrence),
		ActiveWeekdays:   string(active),
		ReminderEnabled:  h.Reminder.Enabled,
		ReminderWeekdays: string(reminderDays),
		GoalType:         string(h.Goal.Type),
		Unit:             nullString(h.Goal.Unit),
		SymbolID:         nullString(h.Icon.SymbolID),
		ColorHex:         nullString(h.Icon.ColorHex),
		SortOrder:        h.SortOrder,
		Version:          h.Version,
		CreatedAt:        h.CreatedAt.UTC(),
		UpdatedAt:        h.UpdatedAt.UTC(),
	}
	if h.Reminder.TimeOfDay != nil {
		row.ReminderTime = sql.NullString{String: h.Reminder.TimeOfDay.String(), Valid: true}
	}
	if h.Goal.TargetValue != nil {
		row.TargetValue = sql.NullFloat64{Float64: *h.Goal.TargetValue, Valid: true}
	}
	return row, nil
}

func weekdaysOrEmpty(days []domain.Weekday) []domain.Weekday {
	if days == nil {
		return []domain.Weekday{}
	}
	return days
}

func (row *habitRow) toHabit() (*domain.Habit, error) {
	h := &domain.Habit{
		ID:              row.ID,
		Name:            row.Name,
		Recurrence:      domain.Recurrence(row.Recurrence),
		CompletionDates: []domain.Day{},
		Reminder:        domain.Reminder{Enabled: row.ReminderEnabled},
		Goal: domain.Goal{
			Type: domain.GoalType(row.GoalType),
			Unit: stringPtr(row.Unit),
		},
		Icon: domain.Icon{
			SymbolID: stringPtr(row.SymbolID),
			ColorHex: stringPtr(row.ColorHex),
		},
		SortOrder: row.SortOrder,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if err := json.Unmarshal([]byte(row.ActiveWeekdays), &h.ActiveWeekdays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weekdays: %w", err)
	}
	if err := json.Unmarshal([]byte(row.ReminderWeekdays), &h.Reminder.Weekdays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reminder weekdays: %w", err)
	}
	if len(h.ActiveWeekdays) == 0 {
		h.ActiveWeekdays = nil
	}
	if len(h.Reminder.Weekdays) == 0 {
		h.Reminder.Weekdays = nil
	}

	if row.ReminderTime.Valid {
		tod, err := domain.ParseTimeOfDay(row.ReminderTime.String)
		if err != nil {
			return nil, fmt.Errorf("stored reminder time %q: %w", row.ReminderTime.String, err)
		}
		h.Reminder.TimeOfDay = &tod
	}
	if row.TargetValue.Valid {
		v := row.TargetValue.Float64
		h.Goal.TargetValue = &v
	}

	return h, nil
}

func (r *SQLHabitRepository) insertCompletions(ctx context.Context, tx *sqlx.Tx, h *domain.Habit) error {
	query := tx.Rebind(`INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)`)
	for _, d := range h.CompletionDates {
		if _, err := tx.ExecContext(ctx, query, h.ID, d.String()); err != nil {
			return fmt.Errorf("failed to insert completion %s: %w", d, err)
		}
	}
	return nil
}

func (r *SQLHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	if h.Version < 1 {
		h.Version = 1
	}
	row, err := toRow(h)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertHabitQuery, row); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrHabitAlreadyExists
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := r.insertCompletions(ctx, tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLHabitRepository) completionsFor(ctx context.Context, q sqlx.QueryerContext, habitID string) ([]domain.Day, error) {
	var rows []completionRow
	query := r.db.Rebind(`SELECT habit_id, day FROM habit_completions WHERE habit_id = ? ORDER BY day`)
	if err := sqlx.SelectContext(ctx, q, &rows, query, habitID); err != nil {
		return nil, fmt.Errorf("completion query error: %w", err)
	}

	days := make([]domain.Day, 0, len(rows))
	for _, c := range rows {
		d, err := domain.ParseDay(c.Day)
		if err != nil {
			return nil, fmt.Errorf("stored completion %q: %w", c.Day, err)
		}
		days = append(days, d)
	}
	return days, nil
}

func (r *SQLHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := r.db.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	h, err := row.toHabit()
	if err != nil {
		return nil, err
	}

	h.CompletionDates, err = r.completionsFor(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *SQLHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	var rows []habitRow
	query := `SELECT ` + habitColumns + ` FROM habits ORDER BY sort_order ASC, created_at ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	var completions []completionRow
	if err := r.db.SelectContext(ctx, &completions, `SELECT habit_id, day FROM habit_completions ORDER BY day`); err != nil {
		return nil, fmt.Errorf("completion query error: %w", err)
	}

	byHabit := make(map[string][]domain.Day, len(rows))
	for _, c := range completions {
		d, err := domain.ParseDay(c.Day)
		if err != nil {
			return nil, fmt.Errorf("stored completion %q: %w", c.Day, err)
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], d)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for i := range rows {
		h, err := rows[i].toHabit()
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", rows[i].ID, err)
		}
		if days, ok := byHabit[h.ID]; ok {
			h.CompletionDates = days
		}
		habits = append(habits, h)
	}

	// The database orders timestamps, but ties need the same rule as the
	// other stores.
	domain.SortByPosition(habits)

	return habits, nil
}

func (r *SQLHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	row, err := toRow(h)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        UPDATE habits SET
            name = :name, recurrence = :recurrence, active_weekdays = :active_weekdays,
            reminder_enabled = :reminder_enabled, reminder_time = :reminder_time,
            reminder_weekdays = :reminder_weekdays, goal_type = :goal_type,
            target_value = :target_value, unit = :unit, symbol_id = :symbol_id,
            color_hex = :color_hex, sort_order = :sort_order,
            updated_at = :updated_at, version = version + 1
        WHERE id = :id AND version = :version`

	res, err := tx.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var count int
		existsQuery := tx.Rebind(`SELECT count(*) FROM habits WHERE id = ?`)
		if checkErr := tx.GetContext(ctx, &count, existsQuery, h.ID); checkErr != nil {
			return fmt.Errorf("existence check failed: %w", checkErr)
		}
		if count == 0 {
			return domain.ErrHabitNotFound
		}
		return domain.ErrHabitConflict
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habit_completions WHERE habit_id = ?`), h.ID); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if err := r.insertCompletions(ctx, tx, h); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	h.Version++
	return nil
}

func (r *SQLHabitRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// sqlite does not enforce the cascade unless foreign keys are enabled.
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habit_completions WHERE habit_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habits WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return tx.Commit()
}

// Replace swaps the whole collection in one transaction, e.g. after an
// import.
func (r *SQLHabitRepository) Replace(ctx context.Context, habits []*domain.Habit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions`); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits`); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	for _, h := range habits {
		row, err := toRow(h)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertHabitQuery, row); err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
		if err := r.insertCompletions(ctx, tx, h); err != nil {
			return err
		}
	}

	return tx.Commit()
}
