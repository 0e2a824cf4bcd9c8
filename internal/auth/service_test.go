package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/arielsonkoue/mboashop-backend/pkg/auth"
	"github.com/arielsonkoue/mboashop-backend/pkg/config"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret-do-not-use",
	Issuer:            "mboashop-test",
	ExpirationMinutes: 60,
}

// Small argon2 parameters keep hashing fast in tests.
var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUsers struct {
	byEmail map[string]*models.User

	lastLoginCalls int
	lastLoginErr   error
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *stubUsers) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	s.lastLoginCalls++
	return s.lastLoginErr
}

func seedUser(t *testing.T, users *stubUsers, email, password string, admin, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    "Ariane",
		LastName:     "Mballa",
		PasswordHash: hash,
		IsAdmin:      admin,
		IsActive:     active,
	}
	users.byEmail[email] = user
	return user
}

func newAuthFixture(t *testing.T) (*stubUsers, Service) {
	t.Helper()
	users := &stubUsers{byEmail: map[string]*models.User{}}
	svc, err := NewService(users, testJWT)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return users, svc
}

func expectUnauthorized(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("credential failures must not leak detail, got %q", typed.Message())
	}
}

func TestLoginHappyPath(t *testing.T) {
	t.Parallel()
	users, svc := newAuthFixture(t)
	user := seedUser(t, users, "ariane@example.cm", "correct horse battery", false, true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Ariane@Example.CM ",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.User.ID != user.ID || resp.User.Email != user.Email {
		t.Fatalf("unexpected user summary: %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp")
	}
	if users.lastLoginCalls != 1 {
		t.Fatalf("expected last login update, got %d calls", users.lastLoginCalls)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.IsAdmin {
		t.Fatalf("non-admin login must not grant admin claims")
	}
}

func TestLoginRejections(t *testing.T) {
	t.Parallel()
	users, svc := newAuthFixture(t)
	seedUser(t, users, "ariane@example.cm", "correct horse battery", false, true)
	seedUser(t, users, "inactive@example.cm", "correct horse battery", false, false)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.cm", "correct horse battery"},
		{"wrong password", "ariane@example.cm", "wrong password"},
		{"inactive account", "inactive@example.cm", "correct horse battery"},
		{"blank email", "   ", "correct horse battery"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
			expectUnauthorized(t, err)
		})
	}
}

func TestAdminLoginRequiresAdminFlag(t *testing.T) {
	t.Parallel()
	users, svc := newAuthFixture(t)
	seedUser(t, users, "ariane@example.cm", "correct horse battery", false, true)
	admin := seedUser(t, users, "owner@mboashop.cm", "another long phrase", true, true)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    "ariane@example.cm",
		Password: "correct horse battery",
	})
	expectUnauthorized(t, err)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    "owner@mboashop.cm",
		Password: "another long phrase",
	})
	if err != nil {
		t.Fatalf("AdminLogin error: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if !claims.IsAdmin || claims.Email != admin.Email {
		t.Fatalf("unexpected admin claims: %+v", claims)
	}
}

func TestLoginLastLoginFailureSurfaces(t *testing.T) {
	t.Parallel()
	users, svc := newAuthFixture(t)
	seedUser(t, users, "ariane@example.cm", "correct horse battery", false, true)
	users.lastLoginErr = fmt.Errorf("db down")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ariane@example.cm",
		Password: "correct horse battery",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
