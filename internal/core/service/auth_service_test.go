package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User // keyed by email
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "user-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[id]
	return ok, nil
}

func newAuthSvc() (*AuthService, *stubAuthRepo, *stubRevoker) {
	repo := newStubAuthRepo()
	rev := newStubRevoker()
	return NewAuthService(repo, rev, "secret", time.Hour), repo, rev
}

func TestAuthService_SignUp_Success(t *testing.T) {
	svc, _, _ := newAuthSvc()

	user, err := svc.SignUp(context.Background(), " Thandi@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.Email != "thandi@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc, _, _ := newAuthSvc()

	cases := []struct {
		name, email, password string
	}{
		{"empty email", "", "pass123"},
		{"bad email", "not-an-email", "pass123"},
		{"short password", "sipho@example.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SignUp(context.Background(), tc.email, tc.password); err != domain.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	svc, _, _ := newAuthSvc()

	_, _ = svc.SignUp(context.Background(), "bob@example.com", "pass123")
	if _, err := svc.SignUp(context.Background(), "bob@example.com", "pass456"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	svc, _, _ := newAuthSvc()

	if _, err := svc.SignUp(context.Background(), "carol@example.com", "s3cret!"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	sess, err := svc.SignIn(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if sess.AccessToken == "" || sess.TokenType != "bearer" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.User.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(sess.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != sess.User.ID {
		t.Fatalf("expected sub %s, got %v", sess.User.ID, claims["sub"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Fatalf("expected token id")
	}
}

func TestAuthService_SignIn_InvalidPassword(t *testing.T) {
	svc, _, _ := newAuthSvc()

	_, _ = svc.SignUp(context.Background(), "dave@example.com", "goodpass")
	if _, err := svc.SignIn(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthSvc()

	if _, err := svc.SignIn(context.Background(), "ghost@example.com", "pass123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_GetSessionAndUser(t *testing.T) {
	svc, _, _ := newAuthSvc()
	_, _ = svc.SignUp(context.Background(), "erin@example.com", "pass123")
	sess, _ := svc.SignIn(context.Background(), "erin@example.com", "pass123")

	got, err := svc.GetSession(context.Background(), sess.AccessToken)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.User.ID != sess.User.ID {
		t.Fatalf("session user mismatch: %s vs %s", got.User.ID, sess.User.ID)
	}

	user, err := svc.GetUser(context.Background(), sess.AccessToken)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_SignOut_RevokesSession(t *testing.T) {
	svc, _, rev := newAuthSvc()
	_, _ = svc.SignUp(context.Background(), "fana@example.com", "pass123")
	sess, _ := svc.SignIn(context.Background(), "fana@example.com", "pass123")

	if err := svc.SignOut(context.Background(), sess.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(rev.revoked) != 1 {
		t.Fatalf("expected 1 revoked token, got %d", len(rev.revoked))
	}
	for _, ttl := range rev.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl %v", ttl)
		}
	}

	if _, err := svc.GetSession(context.Background(), sess.AccessToken); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestAuthService_GetSession_RejectsForeignToken(t *testing.T) {
	svc, _, _ := newAuthSvc()

	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-x",
		"jti": "abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))

	if _, err := svc.GetSession(context.Background(), forged); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.GetSession(context.Background(), "garbage"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_GetSession_ExpiredToken(t *testing.T) {
	svc, _, _ := newAuthSvc()
	_, _ = svc.SignUp(context.Background(), "gugu@example.com", "pass123")
	sess, _ := svc.SignIn(context.Background(), "gugu@example.com", "pass123")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.GetSession(context.Background(), sess.AccessToken); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}
