package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/findosh/folio/internal/config"
	"github.com/findosh/folio/internal/storage"
)

func newTestService(t *testing.T, session time.Duration) *Service {
	t.Helper()
	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	cfg := &config.Config{SecretKey: "test-secret", SessionDuration: session}
	return NewService(cfg, storage.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t, time.Hour)

	user, err := svc.Register(RegisterInput{Email: " Jane@Example.com ", Password: "correct-horse", Name: "Jane"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("Expected password to be hashed")
	}

	result, err := svc.Login(LoginInput{Email: "jane@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" || result.User.ID != user.ID {
		t.Errorf("Unexpected login result %+v", result)
	}

	got, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRegister_Errors(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Register(RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"duplicate", RegisterInput{Email: "A@B.C", Password: "password1"}, ErrEmailExists},
		{"short password", RegisterInput{Email: "x@y.z", Password: "short"}, ErrInvalidInput},
		{"bad email", RegisterInput{Email: "nobody", Password: "password1"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.input); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Register(RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, in := range []LoginInput{
		{Email: "a@b.c", Password: "wrong-password"},
		{Email: "missing@b.c", Password: "password1"},
	} {
		if _, err := svc.Login(in); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s): expected ErrInvalidCredentials, got %v", in.Email, err)
		}
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	expired := newTestService(t, -time.Minute)
	if _, err := expired.Register(RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	result, err := expired.Login(LoginInput{Email: "a@b.c", Password: "password1"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := expired.ValidateToken(result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired, got %v", err)
	}
	if _, err := expired.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}

	other := newTestService(t, time.Hour)
	other.cfg.SecretKey = "different"
	fresh, _ := expired.createToken(result.User, time.Now().Add(time.Hour))
	if _, err := other.ValidateToken(fresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for foreign signature, got %v", err)
	}
}
