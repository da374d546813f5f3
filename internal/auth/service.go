package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oniqq60/staff_control/internal/apperr"
)

const msgInvalidCredentials = "Invalid email or password"

type Service interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
}

type RegisterInput struct {
	Email    string
	Password string
	// Role defaults to employee when empty.
	Role Role
}

type AuthResult struct {
	User  User
	Token string
}

type userService struct {
	repo       UserRepository
	tokens     *TokenIssuer
	bcryptCost int
	log        *zap.Logger
}

func NewService(repo UserRepository, tokens *TokenIssuer, bcryptCost int, log *zap.Logger) Service {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := NormalizeEmail(in.Email)
	s.log.Debug("register attempt", zap.String("email", email))

	if email == "" {
		s.log.Warn("registration rejected: email is required")
		return AuthResult{}, apperr.Validation("Email is required")
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		s.log.Warn("registration rejected: password too short", zap.String("email", email))
		return AuthResult{}, apperr.Validation("Password must be at least 8 characters")
	}

	role := in.Role
	if role == "" {
		role = RoleEmployee
	}
	if !role.Valid() {
		return AuthResult{}, apperr.Validation("Invalid role. Must be one of: admin, employee")
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		s.log.Error("registration lookup failed", zap.String("email", email), zap.Error(err))
		return AuthResult{}, apperr.Internal(err)
	}
	if exists {
		s.log.Warn("registration rejected: email already registered", zap.String("email", email))
		return AuthResult{}, apperr.Conflict("Email already registered")
	}

	hashed, err := HashPassword(in.Password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		s.log.Warn("registration rejected: password too long", zap.String("email", email))
		return AuthResult{}, apperr.Validation("Password must be 72 bytes or less")
	}
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	user := User{
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return AuthResult{}, apperr.Conflict("Email already registered")
		}
		s.log.Error("create user failed", zap.String("email", email), zap.Error(err))
		return AuthResult{}, apperr.Internal(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	s.log.Info("user registered",
		zap.Int64("userId", user.ID),
		zap.String("email", email),
		zap.String("role", string(role)),
	)
	return AuthResult{User: user, Token: token}, nil
}

// Login answers the same error for an unknown email and a wrong password.
func (s *userService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	s.log.Debug("login attempt", zap.String("email", email))

	if email == "" {
		return AuthResult{}, apperr.Validation("Email is required")
	}
	if password == "" {
		return AuthResult{}, apperr.Validation("Password is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.Warn("login failed: user not found", zap.String("email", email))
			return AuthResult{}, apperr.Authentication(msgInvalidCredentials)
		}
		s.log.Error("login lookup failed", zap.String("email", email), zap.Error(err))
		return AuthResult{}, apperr.Internal(err)
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		s.log.Warn("login failed: invalid password", zap.String("email", email))
		return AuthResult{}, apperr.Authentication(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, apperr.Internal(err)
	}

	s.log.Info("user logged in", zap.Int64("userId", user.ID), zap.String("role", string(user.Role)))
	return AuthResult{User: user, Token: token}, nil
}
