package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/contacts/pkg/apperr"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (User, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User  User
	Token string
}

type authService struct {
	repo   UserRepository
	tokens TokenGenerator
	now    func() time.Time
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (User, error) {
	const op = "auth.Register"
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return User{}, apperr.BadRequest(op, "email and password are required")
	}

	// If user exists, fail fast (best-effort check; the store enforces uniqueness)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, apperr.E(apperr.KindConflict, op, "User already registered", ErrUserAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Internal(op, "failed to register user", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Internal(op, "failed to register user", err)
	}

	user := User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(email),
		PasswordHash: string(passwordHash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return User{}, apperr.E(apperr.KindConflict, op, "User already registered", err)
		}
		return User{}, apperr.Internal(op, "failed to register user", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	const op = "auth.Login"
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, apperr.BadRequest(op, "email and password are required")
	}
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, apperr.E(apperr.KindUnauthorized, op, "email or password is not valid", ErrInvalidCredentials)
		}
		return AuthResult{}, apperr.Internal(op, "failed to login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, apperr.E(apperr.KindUnauthorized, op, "email or password is not valid", ErrInvalidCredentials)
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, apperr.Internal(op, "failed to issue token", err)
	}
	return AuthResult{User: user, Token: token}, nil
}
