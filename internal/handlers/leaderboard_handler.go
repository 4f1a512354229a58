package handlers

import (
	"context"
	"net/http"

	"quiz-system/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	Service *service.LeaderboardService
}

func NewLeaderboardHandler(s *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{Service: s}
}

func (h *LeaderboardHandler) Global(c *gin.Context) {
	entries, err := h.Service.GlobalLeaderboard(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *LeaderboardHandler) Quiz(c *gin.Context) {
	entries, err := h.Service.QuizLeaderboard(context.Background(), c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
