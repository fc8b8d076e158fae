package users

import (
	"context"
	"testing"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	s := store.NewMemory()
	svc := NewService(s, "test-secret", time.Hour, nil)
	svc.HashCost = bcrypt.MinCost
	return svc, s
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: " Ana ", Email: "Ana@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, models.RoleCustomer, res.User.Role)

	claims, err := auth.VerifyAccessToken(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	login, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong password"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestRegisterValidationAndConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.co", Password: "longenough"},
		{Name: "x", Email: "not-an-email", Password: "longenough"},
		{Name: "x", Email: "a@b.co", Password: "short"},
		{Name: "x", Email: "a@b.co", Password: "longenough", Role: "OWNER"},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "%+v", in)
	}

	_, err := svc.Register(ctx, RegisterInput{Name: "one", Email: "dup@b.co", Password: "longenough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "two", Email: "DUP@b.co", Password: "longenough"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = s.InsertUser(ctx, models.User{Username: "gone", Email: "gone@b.co", PasswordHash: string(hash), Role: models.RoleStaff})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "gone@b.co", Password: "longenough"})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@b.co", "bootstrap-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@b.co", "other-pass"))

	admin, err := s.GetUserByEmail(ctx, "root@b.co")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("bootstrap-pass")))
}
