package models

type LeaderboardEntry struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	TotalScore   int    `json:"total_score"`
	QuizzesTaken int    `json:"quizzes_taken"`
}

type AttemptSummary struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type QuizStats struct {
	QuizID        string           `json:"quiz_id"`
	QuizTitle     string           `json:"quiz_title"`
	TotalAttempts int              `json:"total_attempts"`
	AverageScore  float64          `json:"average_score"`
	Attempts      []AttemptSummary `json:"attempts"`
}
