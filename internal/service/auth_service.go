package service

import (
	"context"
	"time"

	"quiz-system/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	UserDirectory
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

const (
	bcryptCost       = 10
	lockoutThreshold = 5
	lockoutWindow    = 10 * time.Minute
)

// AuthService handles registration and login. Repeated login failures lock
// the account for lockoutWindow, tracked in Redis so the counter survives
// restarts. Without a Redis client the lockout is simply skipped.
type AuthService struct {
	Users UserStore
	JWT   *JWTService
	Redis *redis.Client
	now   func() time.Time
}

func NewAuthService(users UserStore, jwtService *JWTService, redisClient *redis.Client) *AuthService {
	return &AuthService{Users: users, JWT: jwtService, Redis: redisClient, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	inUse, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if s.locked(ctx, username) {
		return "", nil, ErrUserLocked
	}

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		s.recordFailure(ctx, username)
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return "", nil, ErrInvalidCredentials
	}

	s.clearFailures(ctx, username)
	token, err := s.JWT.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) locked(ctx context.Context, username string) bool {
	if s.Redis == nil {
		return false
	}
	failures, err := s.Redis.Get(ctx, failureKey(username)).Int()
	return err == nil && failures >= lockoutThreshold
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.Redis == nil {
		return
	}
	key := failureKey(username)
	if n, err := s.Redis.Incr(ctx, key).Result(); err == nil && n == 1 {
		s.Redis.Expire(ctx, key, lockoutWindow)
	}
}

func (s *AuthService) clearFailures(ctx context.Context, username string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, failureKey(username))
}

func failureKey(username string) string {
	return "login_failures:" + username
}
