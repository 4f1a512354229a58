package service

import (
	"context"
	"log"
	"time"

	"quiz-system/internal/models"
)

// AttemptService owns the attempt lifecycle: starting and resuming attempts,
// tracking remaining time, expiring overdue attempts and scoring submissions.
// An attempt is mutated only here. All check-then-act sequences run under a
// per-(user, quiz) lock so concurrent starts or submits cannot produce two
// active attempts or a double submit.
type AttemptService struct {
	Attempts AttemptStore
	Quizzes  QuizCatalog
	// Events, when set, receives an attempt.expired event for every expiry
	// transition, whichever read or write detected it.
	Events EventSink
	locks  *keyedMutex
	now    func() time.Time
}

func NewAttemptService(attempts AttemptStore, quizzes QuizCatalog) *AttemptService {
	return &AttemptService{
		Attempts: attempts,
		Quizzes:  quizzes,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// NewAttemptServiceWithClock allows deterministic timestamps in tests.
func NewAttemptServiceWithClock(attempts AttemptStore, quizzes QuizCatalog, now func() time.Time) *AttemptService {
	s := NewAttemptService(attempts, quizzes)
	s.now = now
	return s
}

// StartAttempt starts a quiz for a user, or resumes the active attempt if one
// exists and still has time left. A completed prior attempt blocks retakes.
func (s *AttemptService) StartAttempt(ctx context.Context, userID, quizID string, timeLimit int) (*models.Attempt, error) {
	unlock := s.locks.Lock(attemptKey(userID, quizID))
	defer unlock()

	last, err := s.Attempts.FindMostRecentByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if last != nil && !last.IsActive && last.CompletedAt != nil {
		return nil, ErrAlreadyAttempted
	}

	active, err := s.Attempts.FindActiveByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		remaining := active.TimeLimit - s.elapsedSeconds(active.StartedAt)
		if remaining > 0 {
			// Idempotent resume: same attempt, original start time.
			active.TimeRemaining = remaining
			return s.Attempts.Save(ctx, active)
		}
		if err := s.expire(ctx, active); err != nil {
			return nil, err
		}
		return nil, ErrAttemptExpired
	}

	attempt := &models.Attempt{
		UserID:        userID,
		QuizID:        quizID,
		Answers:       map[string]int{},
		StartedAt:     s.now(),
		TimeLimit:     timeLimit,
		TimeRemaining: timeLimit,
		IsActive:      true,
	}
	return s.Attempts.Save(ctx, attempt)
}

// RemainingTime reports the seconds left on an attempt. This is a read with a
// persisted side effect: an overdue attempt is expired here, and the returned
// attempt reflects the state written to the store.
func (s *AttemptService) RemainingTime(ctx context.Context, attemptID string) (int, *models.Attempt, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return 0, nil, err
	}
	if attempt == nil {
		return 0, nil, ErrAttemptNotFound
	}

	unlock := s.locks.Lock(attemptKey(attempt.UserID, attempt.QuizID))
	defer unlock()

	// Reload under the lock; a concurrent submit may have landed first.
	attempt, err = s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return 0, nil, err
	}
	if attempt == nil {
		return 0, nil, ErrAttemptNotFound
	}

	remaining, err := s.refreshRemaining(ctx, attempt)
	if err != nil {
		return 0, nil, err
	}
	return remaining, attempt, nil
}

// SubmitAttempt stores the answers, scores them against the quiz and closes
// the attempt. Late submissions expire the attempt instead of scoring it.
func (s *AttemptService) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]int) (*models.Attempt, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}

	unlock := s.locks.Lock(attemptKey(attempt.UserID, attempt.QuizID))
	defer unlock()

	attempt, err = s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	if !attempt.IsActive {
		return nil, ErrAttemptNotActive
	}

	remaining, err := s.refreshRemaining(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, ErrAttemptExpired
	}

	attempt.Answers = answers
	attempt.Score = s.score(ctx, attempt)
	attempt.IsActive = false
	completed := s.now()
	attempt.CompletedAt = &completed
	return s.Attempts.Save(ctx, attempt)
}

// HasAttempted reports whether the user's latest attempt on the quiz has
// reached a terminal state. An expired-but-unread attempt still counts as
// active here; expiry is only detected when the attempt is read.
func (s *AttemptService) HasAttempted(ctx context.Context, userID, quizID string) (bool, error) {
	last, err := s.Attempts.FindMostRecentByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return false, err
	}
	return last != nil && !last.IsActive, nil
}

// CanStartNewAttempt reports whether any active attempt currently holds the
// (user, quiz) slot. A completed prior attempt returns true here even though
// StartAttempt refuses retakes.
func (s *AttemptService) CanStartNewAttempt(ctx context.Context, userID, quizID string) (bool, error) {
	last, err := s.Attempts.FindMostRecentByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	if last.IsActive {
		remaining, _, err := s.RemainingTime(ctx, last.ID)
		if err != nil {
			return false, err
		}
		return remaining <= 0, nil
	}
	return true, nil
}

func (s *AttemptService) AttemptsByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	return s.Attempts.FindByUser(ctx, userID)
}

func (s *AttemptService) AttemptsByQuiz(ctx context.Context, quizID string) ([]models.Attempt, error) {
	return s.Attempts.FindByQuiz(ctx, quizID)
}

// UserAttemptDetails aggregates a user's attempt history and authored quizzes.
func (s *AttemptService) UserAttemptDetails(ctx context.Context, userID string) (map[string]interface{}, error) {
	attempts, err := s.Attempts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := s.Quizzes.FindByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := attempts
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return map[string]interface{}{
		"total_quizzes_taken": len(attempts),
		"recent_attempts":     recent,
		"created_quizzes":     created,
	}, nil
}

// refreshRemaining recomputes the attempt's time budget, expiring it when the
// budget is gone and persisting the refreshed cache otherwise. Callers must
// hold the attempt's key lock.
func (s *AttemptService) refreshRemaining(ctx context.Context, attempt *models.Attempt) (int, error) {
	if !attempt.IsActive {
		return 0, nil
	}
	remaining := attempt.TimeLimit - s.elapsedSeconds(attempt.StartedAt)
	if remaining <= 0 {
		if err := s.expire(ctx, attempt); err != nil {
			return 0, err
		}
		return 0, nil
	}
	attempt.TimeRemaining = remaining
	if _, err := s.Attempts.Save(ctx, attempt); err != nil {
		return 0, err
	}
	return remaining, nil
}

// expire is the terminal transition for an overdue attempt. It never scores.
func (s *AttemptService) expire(ctx context.Context, attempt *models.Attempt) error {
	attempt.IsActive = false
	attempt.TimeRemaining = 0
	attempt.Score = 0
	completed := s.now()
	attempt.CompletedAt = &completed
	if attempt.Answers == nil {
		attempt.Answers = map[string]int{}
	}
	if _, err := s.Attempts.Save(ctx, attempt); err != nil {
		return err
	}
	if s.Events != nil {
		if err := s.Events.Publish("attempt.expired", map[string]interface{}{
			"attempt_id": attempt.ID,
			"user_id":    attempt.UserID,
			"quiz_id":    attempt.QuizID,
			"timestamp":  s.now(),
		}); err != nil {
			log.Printf("Failed to publish attempt.expired for %s: %v", attempt.ID, err)
		}
	}
	return nil
}

// score counts quiz questions whose submitted answer matches the correct
// option index. Missing, unknown and extra answers are ignored. A quiz that
// cannot be resolved scores 0.
func (s *AttemptService) score(ctx context.Context, attempt *models.Attempt) int {
	quiz, err := s.Quizzes.FindByID(ctx, attempt.QuizID)
	if err != nil || quiz == nil {
		return 0
	}
	score := 0
	for _, q := range quiz.Questions {
		if selected, ok := attempt.Answers[q.Key()]; ok && selected == q.CorrectOptionIndex {
			score++
		}
	}
	return score
}

func (s *AttemptService) elapsedSeconds(startedAt time.Time) int {
	return int(s.now().Sub(startedAt) / time.Second)
}

func attemptKey(userID, quizID string) string {
	return userID + "|" + quizID
}
