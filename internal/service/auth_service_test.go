package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-system/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *memUserStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := newMemUserStore()
	jwtService := service.NewJWTService("test-secret")
	return service.NewAuthService(users, jwtService, client), users, mr
}

func TestRegister(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a persisted id")
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cretpw" {
		t.Error("password must be stored hashed")
	}

	stored, _ := users.FindByUsername(context.Background(), "alice")
	if stored == nil || stored.Email != "alice@example.com" {
		t.Errorf("stored user = %+v, want alice", stored)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "other@example.com", "s3cretpw"); !errors.Is(err, service.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "alice@example.com", "s3cretpw"); !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice", "s3cretpw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user id = %q, want %q", user.ID, registered.ID)
	}

	claims, err := svc.JWT.Parse(token)
	if err != nil {
		t.Fatalf("token did not parse: %v", err)
	}
	if claims.UserID != registered.ID || claims.Username != "alice" {
		t.Errorf("claims = %+v, want alice's identity", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, _, err := svc.Login(context.Background(), "nobody", "whatever"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, _, mr := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
			t.Fatalf("failure %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// Even the correct password is refused while locked.
	if _, _, err := svc.Login(context.Background(), "alice", "s3cretpw"); !errors.Is(err, service.ErrUserLocked) {
		t.Fatalf("err = %v, want ErrUserLocked", err)
	}

	mr.FastForward(11 * time.Minute)
	if _, _, err := svc.Login(context.Background(), "alice", "s3cretpw"); err != nil {
		t.Errorf("login after lockout window failed: %v", err)
	}
}

func TestLoginSuccessClearsFailureCounter(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		svc.Login(context.Background(), "alice", "wrong")
	}
	if _, _, err := svc.Login(context.Background(), "alice", "s3cretpw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// The counter was reset, so four more failures do not lock yet.
	for i := 0; i < 4; i++ {
		svc.Login(context.Background(), "alice", "wrong")
	}
	if _, _, err := svc.Login(context.Background(), "alice", "s3cretpw"); err != nil {
		t.Errorf("login failed: %v", err)
	}
}

func TestLoginWithoutRedisSkipsLockout(t *testing.T) {
	users := newMemUserStore()
	svc := service.NewAuthService(users, service.NewJWTService("test-secret"), nil)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	}
	if _, _, err := svc.Login(context.Background(), "alice", "s3cretpw"); err != nil {
		t.Errorf("login failed: %v", err)
	}
}
