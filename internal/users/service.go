// Package users registers staff and customer accounts and exchanges
// credentials for access tokens.
package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

type Service struct {
	Store    store.Store
	Secret   string
	TokenTTL time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
	HashCost int
}

func NewService(s store.Store, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:    s,
		Secret:   secret,
		TokenTTL: ttl,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
		HashCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Profile struct {
	ID    int64           `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Profile   `json:"user"`
}

func (in *RegisterInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return apperror.Validation("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return apperror.Validation("A valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return apperror.Validation("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !in.Role.Valid() {
		return apperror.Validation("Invalid role")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := in.normalize(); err != nil {
		return AuthResult{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.HashCost)
	if err != nil {
		return AuthResult{}, apperror.Unexpected(err)
	}

	user, err := s.Store.InsertUser(ctx, models.User{
		Username:     in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    s.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return AuthResult{}, apperror.Conflict("User with this email already exists")
		}
		return AuthResult{}, apperror.Unexpected(err)
	}
	s.Logger.Info("user registered", zap.Int64("userId", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	invalid := apperror.Unauthorized("Invalid email or password")

	user, err := s.Store.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, invalid
		}
		return AuthResult{}, apperror.Unexpected(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return AuthResult{}, invalid
	}
	if !user.IsActive {
		return AuthResult{}, apperror.Forbidden("Account is disabled")
	}
	return s.issue(user)
}

// EnsureAdmin creates the bootstrap administrator when no account uses email.
// An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	_, err := s.Store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	_, err = s.Register(ctx, RegisterInput{Name: "admin", Email: email, Password: password, Role: models.RoleAdmin})
	if apperror.IsKind(err, apperror.KindConflict) {
		return nil
	}
	return err
}

func (s *Service) issue(user models.User) (AuthResult, error) {
	token, expiresAt, err := auth.IssueAccessToken(user, s.Secret, s.TokenTTL, s.Now())
	if err != nil {
		return AuthResult{}, apperror.Unexpected(err)
	}
	return AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User: Profile{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Username,
			Role:  user.Role,
		},
	}, nil
}
