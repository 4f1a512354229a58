package service

import (
	"context"
	"sort"

	"quiz-system/internal/models"
)

// LeaderboardService folds attempts into per-user totals. Nothing is cached;
// every call recomputes from the store.
type LeaderboardService struct {
	Attempts AttemptStore
	Users    UserDirectory
}

func NewLeaderboardService(attempts AttemptStore, users UserDirectory) *LeaderboardService {
	return &LeaderboardService{Attempts: attempts, Users: users}
}

func (s *LeaderboardService) GlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	attempts, err := s.Attempts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, attempts), nil
}

func (s *LeaderboardService) QuizLeaderboard(ctx context.Context, quizID string) ([]models.LeaderboardEntry, error) {
	attempts, err := s.Attempts.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, attempts), nil
}

func (s *LeaderboardService) aggregate(ctx context.Context, attempts []models.Attempt) []models.LeaderboardEntry {
	byUser := make(map[string][]models.Attempt)
	var order []string
	for _, a := range attempts {
		if _, seen := byUser[a.UserID]; !seen {
			order = append(order, a.UserID)
		}
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for _, userID := range order {
		userAttempts := byUser[userID]
		entry := models.LeaderboardEntry{
			UserID:       userID,
			Username:     s.username(ctx, userID),
			QuizzesTaken: len(userAttempts),
		}
		for _, a := range userAttempts {
			entry.TotalScore += a.Score
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}

func (s *LeaderboardService) username(ctx context.Context, userID string) string {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return "Unknown"
	}
	return user.Username
}
