package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/database/dbtest"
)

func newTestService(t *testing.T) (Service, UserRepository, *TokenIssuer) {
	t.Helper()
	db := dbtest.Open(t, &User{})
	repo := NewRepository(db)
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, tokens, bcrypt.MinCost, zap.NewNop()), repo, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email and defaults role", func(t *testing.T) {
		svc, repo, tokens := newTestService(t)

		res, err := svc.Register(ctx, RegisterInput{Email: "  Ann@Company.COM ", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "ann@company.com", res.User.Email)
		assert.Equal(t, RoleEmployee, res.User.Role)
		assert.Positive(t, res.User.ID)

		stored, err := repo.FindByEmail(ctx, "ann@company.com")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", stored.PasswordHash)

		claims, err := tokens.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
	})

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, RegisterInput{Email: "bob@company.com", Password: "password123"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "BOB@company.com", Password: "password456"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		e, _ := apperr.As(err)
		assert.Equal(t, "Email already registered", e.Message)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		cases := []struct {
			in  RegisterInput
			msg string
		}{
			{in: RegisterInput{Email: "   ", Password: "password123"}, msg: "Email is required"},
			{in: RegisterInput{Email: "a@b.com", Password: "short"}, msg: "Password must be at least 8 characters"},
			// 7 runes, 14 bytes
			{in: RegisterInput{Email: "a@b.com", Password: "ééééééé"}, msg: "Password must be at least 8 characters"},
			{in: RegisterInput{Email: "a@b.com", Password: strings.Repeat("a", 80)}, msg: "Password must be 72 bytes or less"},
			{in: RegisterInput{Email: "a@b.com", Password: "password123", Role: "root"}, msg: "Invalid role. Must be one of: admin, employee"},
		}
		for _, tc := range cases {
			_, err := svc.Register(ctx, tc.in)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, e.Kind)
			assert.Equal(t, tc.msg, e.Message)
		}
	})

	t.Run("counts password runes", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Register(ctx, RegisterInput{Email: "rune@company.com", Password: "пароль12"})
		require.NoError(t, err)
	})

	t.Run("admin role is kept", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		res, err := svc.Register(ctx, RegisterInput{Email: "root@company.com", Password: "password123", Role: RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, res.User.Role)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "carol@company.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, " Carol@Company.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "carol@company.com", res.User.Email)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, errWrong := svc.Login(ctx, "carol@company.com", "password999")
		_, errUnknown := svc.Login(ctx, "nobody@company.com", "password123")

		wrong, ok := apperr.As(errWrong)
		require.True(t, ok)
		unknown, ok := apperr.As(errUnknown)
		require.True(t, ok)

		assert.Equal(t, apperr.KindAuthentication, wrong.Kind)
		assert.Equal(t, wrong.Kind, unknown.Kind)
		assert.Equal(t, "Invalid email or password", wrong.Message)
		assert.Equal(t, wrong.Message, unknown.Message)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := svc.Login(ctx, "carol@company.com", "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
