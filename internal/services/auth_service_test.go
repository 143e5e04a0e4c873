package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zurekai/zurekai/internal/domain"
)

func newAuthDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("auth_svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newAuthService returns a service with bcrypt.MinCost so tests stay fast.
func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	s := NewAuthService(newAuthDB(t))
	s.Cost = bcrypt.MinCost
	return s
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "ania", "sekret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash == "sekret123" {
		t.Fatal("plaintext password was stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("sekret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "ania", "pw1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := s.Register(ctx, "ania", "pw2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_EmptyInputsRejected(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"", "pw"},
		{"ania", ""},
		{"   ", "pw"},
	} {
		if _, err := s.Register(ctx, tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Register(%q, %q): expected ErrInvalidCredentials, got %v", tc.user, tc.pass, err)
		}
	}
}

func TestLogin_SuccessReturnsUserID(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "marek", "haslo")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	id, err := s.Login(ctx, "marek", "haslo")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if id != u.ID {
		t.Fatalf("expected user id %d, got %d", u.ID, id)
	}
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "marek", "haslo"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown username and wrong password must be indistinguishable.
	_, errUnknown := s.Login(ctx, "ghost", "haslo")
	_, errWrongPW := s.Login(ctx, "marek", "zle-haslo")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPW, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPW)
	}
	if errUnknown.Error() != errWrongPW.Error() {
		t.Fatalf("login failures leak cause: %q vs %q", errUnknown, errWrongPW)
	}
}
