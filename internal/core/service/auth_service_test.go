package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository. Reset-token writes follow
// the same conditional semantics as the Mongo implementation.
type stubUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User // by id
	seq      int
	findErr  error
	touchErr error
	setErr   error

	beforeConsume func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.EmergencyContacts = append([]domain.EmergencyContact(nil), u.EmergencyContacts...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.seq)
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	if u, ok := r.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if tok, ok := u.PendingReset(); ok && tok.Hash == tokenHash && tok.ValidAt(now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id string, token domain.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	exp := token.ExpiresAt
	u.ResetTokenHash = token.Hash
	u.ResetTokenExpiry = &exp
	return nil
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, id, tokenHash, passwordHash string, now time.Time) error {
	if r.beforeConsume != nil {
		r.beforeConsume()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrInvalidResetToken
	}
	tok, pending := u.PendingReset()
	if !pending || tok.Hash != tokenHash || !tok.ValidAt(now) {
		return domain.ErrInvalidResetToken
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	return nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.PhoneNumber = update.FirstName, update.LastName, update.PhoneNumber
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateMedicalProfile(_ context.Context, id string, profile domain.MedicalProfile) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.MedicalProfile = profile
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddEmergencyContact(_ context.Context, id string, contact domain.EmergencyContact) ([]domain.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.EmergencyContacts = append(u.EmergencyContacts, contact)
	return cloneUser(u).EmergencyContacts, nil
}

func (r *stubUserRepo) RemoveEmergencyContact(_ context.Context, id, contactID string) ([]domain.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	kept := u.EmergencyContacts[:0]
	found := false
	for _, c := range u.EmergencyContacts {
		if c.ID == contactID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, domain.ErrContactNotFound
	}
	u.EmergencyContacts = kept
	return cloneUser(u).EmergencyContacts, nil
}

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, bcrypt.MinCost, zerolog.Nop())
}

func registerInput(email, password string) ports.RegisterInput {
	return ports.RegisterInput{FirstName: "Alice", LastName: "Doe", Email: email, Password: password}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	token, user, err := svc.Register(context.Background(), registerInput("  Alice@Example.com ", "pass123"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser || !user.IsActive {
		t.Fatalf("unexpected role/active: %s %v", user.Role, user.IsActive)
	}
	if user.MedicalProfile.BloodType != "Unknown" {
		t.Fatalf("expected default blood type, got %q", user.MedicalProfile.BloodType)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.c", Password: "pass123"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for missing names, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), registerInput("a@b.c", "abc")); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), registerInput("a@b.c", "ééé")); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword for 3 multibyte characters, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), registerInput("a@b.c", strings.Repeat("a", 80))); err != domain.ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _, _ = svc.Register(context.Background(), registerInput("bob@example.com", "pass123"))
	if _, _, err := svc.Register(context.Background(), registerInput("BOB@example.com", "pass456")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, registered, err := svc.Register(context.Background(), registerInput("carol@example.com", "s3cret"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.LastLogin == nil {
		t.Fatalf("expected last login to be recorded")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != registered.ID || claims["role"] != domain.RoleUser {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _, _ = svc.Register(context.Background(), registerInput("dave@example.com", "goodpass"))
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, u, _ := svc.Register(context.Background(), registerInput("eve@example.com", "pass123"))
	repo.users[u.ID].IsActive = false

	if _, _, err := svc.Login(context.Background(), "eve@example.com", "pass123"); err != domain.ErrAccountDisabled {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Login_LastLoginFailureIsNotFatal(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, _, _ = svc.Register(context.Background(), registerInput("frank@example.com", "pass123"))
	repo.touchErr = fmt.Errorf("write conflict")

	if _, _, err := svc.Login(context.Background(), "frank@example.com", "pass123"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}
