package models

// ProgressStats is derived from a habit log on demand and never stored.
type ProgressStats struct {
	TotalHabitsCompleted int    `json:"total_habits_completed"`
	TotalTimeSpent       int    `json:"total_time_spent"` // minutes
	StreakDays           int    `json:"streak_days"`
	FavoriteCategory     string `json:"favorite_category"`
}
