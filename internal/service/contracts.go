package service

import (
	"context"

	"quiz-system/internal/models"
)

// AttemptStore is the persistence contract for quiz attempts. Lookups return
// (nil, nil) when nothing matches; store failures propagate unchanged.
type AttemptStore interface {
	Save(ctx context.Context, attempt *models.Attempt) (*models.Attempt, error)
	FindByID(ctx context.Context, id string) (*models.Attempt, error)
	FindByUserAndQuiz(ctx context.Context, userID, quizID string) ([]models.Attempt, error)
	FindActiveByUserAndQuiz(ctx context.Context, userID, quizID string) (*models.Attempt, error)
	FindMostRecentByUserAndQuiz(ctx context.Context, userID, quizID string) (*models.Attempt, error)
	FindAll(ctx context.Context) ([]models.Attempt, error)
	FindByUser(ctx context.Context, userID string) ([]models.Attempt, error)
	FindByQuiz(ctx context.Context, quizID string) ([]models.Attempt, error)
}

// QuizCatalog provides read access to quiz definitions.
type QuizCatalog interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	FindByCreator(ctx context.Context, creatorID string) ([]models.Quiz, error)
}

// UserDirectory resolves user records; absence is tolerated by callers.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EventSink receives lifecycle events. Publishing is best effort; a failed
// publish never fails the operation that raised the event.
type EventSink interface {
	Publish(eventType string, payload interface{}) error
}
