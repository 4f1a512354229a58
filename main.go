package main

import (
	"log"
	"net/http"
	"time"

	"quiz-system/internal/config"
	"quiz-system/internal/db"
	"quiz-system/internal/event"
	"quiz-system/internal/handlers"
	"quiz-system/internal/middleware"
	"quiz-system/internal/repository"
	"quiz-system/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	db.InitMongo(cfg.MongoURI)
	defer db.Disconnect()
	database := db.Client.Database(cfg.MongoDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, lifecycle events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	// Repositories
	userRepo := repository.NewUserRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)

	// Services
	jwtService := service.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService, redisClient)
	quizService := service.NewQuizService(quizRepo, attemptRepo, userRepo)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo)
	if publisher != nil {
		attemptService.Events = publisher
	}
	leaderboardService := service.NewLeaderboardService(attemptRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", func(c *gin.Context) {
			authHandler.Signup(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("user.registered", gin.H{"timestamp": time.Now()})
			}
		})
		auth.POST("/signin", authHandler.Signin)
	}

	quizzes := api.Group("/quizzes")
	quizzes.Use(middleware.Auth(jwtService))
	{
		quizzes.GET("", quizHandler.ListQuizzes)
		quizzes.GET("/:id", quizHandler.GetQuiz)
		quizzes.POST("", func(c *gin.Context) {
			quizHandler.CreateQuiz(c)
			if publisher != nil && c.Writer.Status() == http.StatusCreated {
				publisher.Publish("quiz.created", gin.H{
					"creator_id": c.GetString(middleware.ContextUserID),
					"timestamp":  time.Now(),
				})
			}
		})
		quizzes.PUT("/:id", func(c *gin.Context) {
			quizHandler.UpdateQuiz(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("quiz.updated", gin.H{"quiz_id": c.Param("id"), "timestamp": time.Now()})
			}
		})
		quizzes.DELETE("/:id", func(c *gin.Context) {
			quizHandler.DeleteQuiz(c)
			if publisher != nil && c.Writer.Status() == http.StatusNoContent {
				publisher.Publish("quiz.deleted", gin.H{"quiz_id": c.Param("id"), "timestamp": time.Now()})
			}
		})
		quizzes.GET("/category/:category", quizHandler.QuizzesByCategory)
		quizzes.GET("/creator/:creatorId", quizHandler.QuizzesByCreator)
		quizzes.GET("/:id/stats", quizHandler.QuizStats)
	}

	attempts := api.Group("/quiz-attempts")
	attempts.Use(middleware.Auth(jwtService))
	{
		attempts.POST("/start", func(c *gin.Context) {
			attemptHandler.StartAttempt(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("attempt.started", gin.H{
					"user_id":   c.GetString(middleware.ContextUserID),
					"timestamp": time.Now(),
				})
			}
		})
		attempts.POST("/submit/:attemptId", func(c *gin.Context) {
			attemptHandler.SubmitAttempt(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish("attempt.submitted", gin.H{
					"attempt_id": c.Param("attemptId"),
					"user_id":    c.GetString(middleware.ContextUserID),
					"timestamp":  time.Now(),
				})
			}
		})
		attempts.GET("/:id/time", attemptHandler.RemainingTime)
		attempts.GET("/:id/user/:userId/attempt", attemptHandler.UserQuizAttempt)
		attempts.GET("/status/:userId/:quizId", attemptHandler.AttemptStatus)
		attempts.GET("/user/:userId", attemptHandler.AttemptsByUser)
		attempts.GET("/user/:userId/details", attemptHandler.UserDetails)
		attempts.GET("/quiz/:quizId", attemptHandler.AttemptsByQuiz)
	}

	leaderboard := api.Group("/leaderboard")
	leaderboard.Use(middleware.Auth(jwtService))
	{
		leaderboard.GET("/global", leaderboardHandler.Global)
		leaderboard.GET("/quiz/:quizId", leaderboardHandler.Quiz)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Run(":" + cfg.Port)
}
