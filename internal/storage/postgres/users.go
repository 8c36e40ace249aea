package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vistara-apps/energyflow/internal/models"
)

func (s *Store) LoadUser() (*models.User, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var u models.User
	var categories []byte
	err := s.db.QueryRow(`
		SELECT id, wallet_address, social_id, preferred_categories, created_at
		FROM users LIMIT 1`).Scan(&u.ID, &u.WalletAddress, &u.SocialID, &categories, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := json.Unmarshal(categories, &u.PreferredCategories); err != nil {
		return nil, fmt.Errorf("failed to parse preferred categories: %w", err)
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
		var feedback sql.NullString
		if err := rows.Scan(&l.ID, &l.UserID, &l.HabitID, &l.Timestamp, &l.EnergyLevel, &l.Completed, &feedback); err != nil {
			return nil, err
		}
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
		var fb string
		if err := rows.Scan(&f.HabitID, &fb, &f.Timestamp); err != nil {
			return nil, err
		}
		f.Feedback = models.Feedback(fb)
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
		var energy string
		var instructions []byte
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Category, &h.DurationMin, &energy, &instructions); err != nil {
			return nil, err
		}
		h.Energy = models.EnergyTier(energy)
		if err := json.Unmarshal(instructions, &h.Instructions); err != nil {
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

	categories, err := jsonArray(u.PreferredCategories)
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
		VALUES ($1, $2, $3, $4::jsonb, $5)`,
		u.ID, u.WalletAddress, u.SocialID, categories, u.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	for _, l := range u.HabitHistory {
		var feedback sql.NullString
		if l.Feedback != nil {
			feedback = sql.NullString{String: string(*l.Feedback), Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO habit_logs (id, user_id, habit_id, timestamp, energy_level, completed, feedback)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.UserID, l.HabitID, l.Timestamp.UTC(), l.EnergyLevel, l.Completed, feedback); err != nil {
			return fmt.Errorf("failed to save habit log %s: %w", l.ID, err)
		}
	}

	for _, f := range u.FeedbackHistory {
		if _, err := tx.Exec(`INSERT INTO feedback (habit_id, feedback, timestamp) VALUES ($1, $2, $3)`,
			f.HabitID, string(f.Feedback), f.Timestamp.UTC()); err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
	}

	for _, h := range u.GeneratedHabits {
		instructions, err := jsonArray(h.Instructions)
		if err != nil {
			return fmt.Errorf("failed to encode instructions of %s: %w", h.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO generated_habits (id, name, description, category, duration_min, energy, instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)`,
			h.ID, h.Name, h.Description, h.Category, h.DurationMin, string(h.Energy), instructions); err != nil {
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
	if _, err := tx.Exec("TRUNCATE habit_logs, feedback, generated_habits, users RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}
	return nil
}

func jsonArray(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	return string(b), err
}
