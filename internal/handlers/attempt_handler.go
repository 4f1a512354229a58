package handlers

import (
	"context"
	"errors"
	"net/http"

	"quiz-system/internal/middleware"
	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// StartAttempt starts or resumes the caller's attempt on a quiz.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req struct {
		QuizID    string `json:"quiz_id" binding:"required"`
		TimeLimit int    `json:"time_limit" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	attempt, err := h.Service.StartAttempt(context.Background(), userID, req.QuizID, req.TimeLimit)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyAttempted) || errors.Is(err, service.ErrAttemptExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// RemainingTime reports the seconds left on an attempt. Reading an overdue
// attempt closes it, so the response may reflect a just-expired state.
func (h *AttemptHandler) RemainingTime(c *gin.Context) {
	remaining, attempt, err := h.Service.RemainingTime(context.Background(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"time_remaining": remaining,
		"is_active":      attempt.IsActive,
	})
}

func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var answers map[string]int
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.Service.SubmitAttempt(context.Background(), c.Param("attemptId"), answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		case errors.Is(err, service.ErrAttemptNotActive), errors.Is(err, service.ErrAttemptExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *AttemptHandler) AttemptStatus(c *gin.Context) {
	hasAttempted, err := h.Service.HasAttempted(context.Background(), c.Param("userId"), c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_attempted": hasAttempted})
}

// UserQuizAttempt reports whether the user has a completed attempt on the
// quiz, and its score when they do.
func (h *AttemptHandler) UserQuizAttempt(c *gin.Context) {
	quizID := c.Param("id")
	attempts, err := h.Service.AttemptsByUser(context.Background(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, a := range attempts {
		if a.QuizID == quizID && !a.IsActive {
			c.JSON(http.StatusOK, gin.H{"has_attempted": true, "score": a.Score})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"has_attempted": false})
}

func (h *AttemptHandler) AttemptsByUser(c *gin.Context) {
	attempts, err := h.Service.AttemptsByUser(context.Background(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) AttemptsByQuiz(c *gin.Context) {
	attempts, err := h.Service.AttemptsByQuiz(context.Background(), c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) UserDetails(c *gin.Context) {
	details, err := h.Service.UserAttemptDetails(context.Background(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}
