package service

import (
	"context"
	"time"

	"quiz-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// QuizStore is the persistence contract for quiz definitions.
type QuizStore interface {
	QuizCatalog
	FindAll(ctx context.Context) ([]models.Quiz, error)
	FindByCategory(ctx context.Context, category string) ([]models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) (bool, error)
}

type QuizService struct {
	Quizzes  QuizStore
	Attempts AttemptStore
	Users    UserDirectory
	now      func() time.Time
}

func NewQuizService(quizzes QuizStore, attempts AttemptStore, users UserDirectory) *QuizService {
	return &QuizService{Quizzes: quizzes, Attempts: attempts, Users: users, now: time.Now}
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.Quizzes.FindAll(ctx)
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, quiz *models.Quiz, creatorID string) (*models.Quiz, error) {
	now := s.now()
	quiz.CreatorID = creatorID
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id string, updated *models.Quiz) (*models.Quiz, error) {
	existing, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Questions = updated.Questions
	existing.TimeLimit = updated.TimeLimit
	existing.UpdatedAt = s.now()

	err = s.Quizzes.Update(ctx, id, bson.M{
		"title":       existing.Title,
		"description": existing.Description,
		"questions":   existing.Questions,
		"time_limit":  existing.TimeLimit,
		"updated_at":  existing.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) (bool, error) {
	return s.Quizzes.Delete(ctx, id)
}

func (s *QuizService) QuizzesByCreator(ctx context.Context, creatorID string) ([]models.Quiz, error) {
	return s.Quizzes.FindByCreator(ctx, creatorID)
}

func (s *QuizService) QuizzesByCategory(ctx context.Context, category string) ([]models.Quiz, error) {
	return s.Quizzes.FindByCategory(ctx, category)
}

// QuizStats summarizes all attempts recorded for one quiz.
func (s *QuizService) QuizStats(ctx context.Context, quizID string) (*models.QuizStats, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.Attempts.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	stats := &models.QuizStats{
		QuizID:        quizID,
		QuizTitle:     quiz.Title,
		TotalAttempts: len(attempts),
	}
	if len(attempts) == 0 {
		return stats, nil
	}

	total := 0
	for _, a := range attempts {
		total += a.Score
		summary := models.AttemptSummary{Username: "Anonymous", Score: a.Score}
		if user, err := s.Users.FindByID(ctx, a.UserID); err == nil && user != nil {
			summary.Username = user.Username
		}
		stats.Attempts = append(stats.Attempts, summary)
	}
	stats.AverageScore = float64(total) / float64(len(attempts))
	return stats, nil
}
