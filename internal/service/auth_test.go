package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest(username, email string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "password123",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("ada", "Ada@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = svc.Register(ctx, registerRequest("other", "ada@example.com"))
	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindAlreadyExists, e.Kind)
	assert.Equal(t, "email", e.Field)

	_, err = svc.Register(ctx, registerRequest("ada", "another@example.com"))
	e, ok = errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "username", e.Field)
}

func TestLogin(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("ada", "ada@example.com"))
	require.NoError(t, err)

	user, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.Equal(t, errs.KindInvalidValue, errs.KindOf(err))

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.Equal(t, errs.KindInvalidValue, errs.KindOf(err))
}

func TestTokenRoundTrip(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	user := testhelpers.CreateUser(t, db, "ada")

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)

	_, err = NewAuthService(db, "other-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	user := testhelpers.CreateUser(t, db, "ada")

	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: user.ID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewAuthService(db, "test-secret")
	testhelpers.CreateUser(t, db, "carol")
	testhelpers.CreateUser(t, db, "alice")
	testhelpers.CreateUser(t, db, "bob")

	users, total, err := svc.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	_, err = svc.GetUserByID(context.Background(), users[0].ID)
	assert.NoError(t, err)
}
