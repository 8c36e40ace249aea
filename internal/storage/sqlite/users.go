package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vistara-apps/energyflow/internal/models"
)

// Timestamps are stored as RFC 3339 text with nanoseconds so they sort and
// round-trip exactly.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func (s *Store) LoadUser() (*models.User, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var u models.User
	var categories, createdAt string
	err := s.db.QueryRow(`
		SELECT id, wallet_address, social_id, preferred_categories, created_at
		FROM users LIMIT 1`).Scan(&u.ID, &u.WalletAddress, &u.SocialID, &categories, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := json.Unmarshal([]byte(categories), &u.PreferredCategories); err != nil {
		return nil, fmt.Errorf("failed to parse preferred categories: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if u.HabitHistory, err = s.loadHabitLogs(); err != nil {
		return nil, err
	}
	if u.FeedbackHistory, err = s.loadFeedback(); err != nil {
		return nil, err
	}
	if u.GeneratedHabits, err = s.loadGeneratedHabits(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) loadHabitLogs() ([]models.HabitLog, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, habit_id, timestamp, energy_level, completed, feedback
		FROM habit_logs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit history: %w", err)
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		var l models.HabitLog
		var ts string
		var completed int
		var feedback sql.NullString
		if err := rows.Scan(&l.ID, &l.UserID, &l.HabitID, &ts, &l.EnergyLevel, &completed, &feedback); err != nil {
			return nil, err
		}
		if l.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		l.Completed = completed != 0
		if feedback.Valid {
			fb := models.Feedback(feedback.String)
			l.Feedback = &fb
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) loadFeedback() ([]models.FeedbackData, error) {
	rows, err := s.db.Query(`SELECT habit_id, feedback, timestamp FROM feedback ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback history: %w", err)
	}
	defer rows.Close()

	var out []models.FeedbackData
	for rows.Next() {
		var f models.FeedbackData
		var fb, ts string
		if err := rows.Scan(&f.HabitID, &fb, &ts); err != nil {
			return nil, err
		}
		f.Feedback = models.Feedback(fb)
		if f.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) loadGeneratedHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, category, duration_min, energy, instructions
		FROM generated_habits ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load generated habits: %w", err)
	}
	defer rows.Close()

	var out []models.Habit
	for rows.Next() {
		var h models.Habit
		var energy, instructions string
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Category, &h.DurationMin, &energy, &instructions); err != nil {
			return nil, err
		}
		h.Energy = models.EnergyTier(energy)
		if err := json.Unmarshal([]byte(instructions), &h.Instructions); err != nil {
			return nil, fmt.Errorf("failed to parse instructions of %s: %w", h.ID, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveUser replaces the stored aggregate in a single transaction.
func (s *Store) SaveUser(u models.User) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	categories, err := json.Marshal(nonNil(u.PreferredCategories))
	if err != nil {
		return fmt.Errorf("failed to encode preferred categories: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearTables(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO users (id, wallet_address, social_id, preferred_categories, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.WalletAddress, u.SocialID, string(categories), formatTime(u.CreatedAt)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	for _, l := range u.HabitHistory {
		var feedback sql.NullString
		if l.Feedback != nil {
			feedback = sql.NullString{String: string(*l.Feedback), Valid: true}
		}
		completed := 0
		if l.Completed {
			completed = 1
		}
		if _, err := tx.Exec(`
			INSERT INTO habit_logs (id, user_id, habit_id, timestamp, energy_level, completed, feedback)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.UserID, l.HabitID, formatTime(l.Timestamp), l.EnergyLevel, completed, feedback); err != nil {
			return fmt.Errorf("failed to save habit log %s: %w", l.ID, err)
		}
	}

	for _, f := range u.FeedbackHistory {
		if _, err := tx.Exec(`INSERT INTO feedback (habit_id, feedback, timestamp) VALUES (?, ?, ?)`,
			f.HabitID, string(f.Feedback), formatTime(f.Timestamp)); err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
	}

	for _, h := range u.GeneratedHabits {
		instructions, err := json.Marshal(nonNil(h.Instructions))
		if err != nil {
			return fmt.Errorf("failed to encode instructions of %s: %w", h.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO generated_habits (id, name, description, category, duration_min, energy, instructions)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.Description, h.Category, h.DurationMin, string(h.Energy), string(instructions)); err != nil {
			return fmt.Errorf("failed to save generated habit %s: %w", h.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

func (s *Store) Clear() error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearTables(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearTables(tx *sql.Tx) error {
	for _, table := range []string{"habit_logs", "feedback", "generated_habits", "users"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
