package models

import "time"

type Attempt struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	UserID        string         `bson:"user_id" json:"user_id"`
	QuizID        string         `bson:"quiz_id" json:"quiz_id"`
	Answers       map[string]int `bson:"answers" json:"answers"`
	Score         int            `bson:"score" json:"score"`
	StartedAt     time.Time      `bson:"started_at" json:"started_at"`
	CompletedAt   *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	TimeLimit     int            `bson:"time_limit" json:"time_limit"`
	TimeRemaining int            `bson:"time_remaining" json:"time_remaining"`
	IsActive      bool           `bson:"is_active" json:"is_active"`
}
