package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/inkdraft/inkdraft/pkg/errcodes"
	"github.com/inkdraft/inkdraft/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return NewService(db, "test-secret")
}

func TestCreateUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserOptions{
		Username: "ada",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse battery staple", user.PasswordHash)

	t.Run("rejects duplicate usernames case insensitively", func(tt *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserOptions{
			Username: "ADA",
			Password: "another password",
		})
		assert.Equal(tt, errcodes.ValidationError("Username is already taken."), err)
	})
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserOptions{
		Username: "ada",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(tt *testing.T) {
		user, err := svc.Authenticate(ctx, "ada", "correct horse battery staple")
		require.NoError(tt, err)
		assert.Equal(tt, "ada", user.Username)
	})

	t.Run("case insensitive username", func(tt *testing.T) {
		user, err := svc.Authenticate(ctx, "Ada", "correct horse battery staple")
		require.NoError(tt, err)
		assert.Equal(tt, "ada", user.Username)
	})

	t.Run("wrong password", func(tt *testing.T) {
		_, err := svc.Authenticate(ctx, "ada", "wrong")
		assert.Equal(tt, errcodes.Unauthorized("Invalid username or password"), err)
	})

	t.Run("unknown user", func(tt *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "correct horse battery staple")
		assert.Equal(tt, errcodes.Unauthorized("Invalid username or password"), err)
	})

	t.Run("inactive user", func(tt *testing.T) {
		_, err := svc.db.Exec(`UPDATE users SET is_active = 0 WHERE username = 'ada'`)
		require.NoError(tt, err)
		_, err = svc.Authenticate(ctx, "ada", "correct horse battery staple")
		require.Error(tt, err)
	})
}

func TestTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserOptions{
		Username: "ada",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("round trip", func(tt *testing.T) {
		claims, err := svc.ValidateToken(token)
		require.NoError(tt, err)
		assert.Equal(tt, user.ID, claims.UserID)
		assert.Equal(tt, "ada", claims.Username)
		assert.WithinDuration(tt, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("rejects tokens signed with another secret", func(tt *testing.T) {
		other := NewService(svc.db, "other-secret")
		otherToken, err := other.GenerateToken(user)
		require.NoError(tt, err)
		_, err = svc.ValidateToken(otherToken)
		assert.Error(tt, err)
	})

	t.Run("rejects garbage", func(tt *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(tt, err)
	})
}

func TestGetUserByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserOptions{
		Username: "ada",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	found, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", found.Username)

	_, err = svc.GetUserByID(ctx, user.ID+100)
	assert.Equal(t, errcodes.NotFound("User"), err)
}
