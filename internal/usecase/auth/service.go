package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hackmap/internal/domain/user"
	"hackmap/internal/pkg/jwt"
	"hackmap/internal/usecase"
)

const minPasswordLength = 8

var (
	ErrUserExists          = usecase.Invalid("User already exists")
	ErrInvalidCredentials  = usecase.New(usecase.KindUnauthorized, "Invalid credentials")
	ErrInvalidEmail        = usecase.Invalid("Email is required")
	ErrPasswordTooShort    = usecase.Invalid("Password must be at least 8 characters")
	ErrInvalidRefreshToken = usecase.New(usecase.KindUnauthorized, "Invalid refresh token")
	ErrRefreshTokenExpired = usecase.New(usecase.KindUnauthorized, "Refresh token expired")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Session struct {
	Tokens
	User user.User
}

type Usecase interface {
	Register(ctx context.Context, in RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, in LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

type Service struct {
	users user.Repository
	jwt   jwt.Service
}

func NewService(users user.Repository, jwtSvc jwt.Service) *Service {
	return &Service{users: users, jwt: jwtSvc}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return uuid.Nil, ErrInvalidEmail
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLength {
		return uuid.Nil, ErrPasswordTooShort
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, usecase.Internal(err)
	}
	if exists {
		return uuid.Nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, usecase.Internal(err)
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Skills:       []string{},
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return uuid.Nil, ErrUserExists
		}
		return uuid.Nil, usecase.Internal(err)
	}
	return u.ID, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, usecase.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	tokens, err := s.issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Tokens: tokens, User: sanitizeUser(u)}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return Tokens{}, usecase.ErrUnauthorized
	}

	claims, err := s.jwt.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Tokens{}, ErrRefreshTokenExpired.WithCause(err)
		}
		return Tokens{}, ErrInvalidRefreshToken.WithCause(err)
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrInvalidRefreshToken
		}
		return Tokens{}, usecase.Internal(err)
	}
	return s.issue(u)
}

func (s *Service) issue(u user.User) (Tokens, error) {
	pair, err := s.jwt.IssuePair(u.ID, u.Email)
	if err != nil {
		return Tokens{}, usecase.Internal(err)
	}
	return Tokens{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
