package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellerdesk-backend/internal/users"
	pkgAuth "github.com/angelmondragon/sellerdesk-backend/pkg/auth"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/sellerdesk-backend/pkg/errors"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/security"
)

var (
	testJWT = config.JWTConfig{Secret: "secret", Issuer: "sellerdesk", ExpirationMinutes: 30}
	testPwd = config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

func buildTestService(t *testing.T) (Service, *users.Repository) {
	t.Helper()
	repo := users.NewRepository(dbtest.Open(t))
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWT,
		PasswordConfig: testPwd,
		Logger:         logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, repo
}

func registerSeller(t *testing.T, svc Service) *users.UserDTO {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada",
		LastName: "Lovelace",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	svc, repo := buildTestService(t)
	user := registerSeller(t, svc)

	assert.Equal(t, "ada@example.com", user.Email)
	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	ok, err := security.VerifyPassword("correct-horse", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := buildTestService(t)
	registerSeller(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Other", LastName: "Seller", Email: "ada@example.com", Password: "another-pass",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicate))
}

func TestRegisterValidatesFields(t *testing.T) {
	svc, _ := buildTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{LastName: "X", Email: "x@example.com", Password: "pw123456"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "X", LastName: "X", Email: "x@example.com"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestLoginIssuesTokenWithIdentityClaims(t *testing.T) {
	svc, _ := buildTestService(t)
	user := registerSeller(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "Lovelace", claims.LastName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := buildTestService(t)
	registerSeller(t, svc)

	cases := []LoginRequest{
		{Email: "ada@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "correct-horse"},
		{Email: "", Password: "correct-horse"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthenticated), "email %q", req.Email)
	}
}

func TestLoginRehashesOutdatedHash(t *testing.T) {
	svc, repo := buildTestService(t)
	weak := testPwd
	weak.ArgonMemoryKB = 4096
	hash, err := security.HashPassword("legacy-pass", weak)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), users.CreateUserDTO{
		Email: "legacy@example.com", PasswordHash: hash, Name: "L", LastName: "S",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "legacy@example.com", Password: "legacy-pass"})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, hash, stored.PasswordHash)
	assert.False(t, security.NeedsRehash(stored.PasswordHash, testPwd))
}

func TestMe(t *testing.T) {
	svc, _ := buildTestService(t)
	user := registerSeller(t, svc)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthenticated))

	_, err = svc.Me(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthenticated))
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}
