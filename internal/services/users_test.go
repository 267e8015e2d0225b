package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/models"
)

func TestRegister_StoresHashNotPassword(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.users.Register(context.Background(), RegisterInput{
		Username: " alice ",
		Password: "pw1",
		Email:    "A@X.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, RegisterInput{Username: "alice", Password: "pw2", Email: "other@x.com"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	assert.Equal(t, int64(1), env.count(t, &models.User{}))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, RegisterInput{Username: "alice", Password: "pw1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, RegisterInput{Username: "alice2", Password: "pw1", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, in := range []RegisterInput{
		{Password: "pw", Email: "a@x.com"},
		{Username: "alice", Email: "a@x.com"},
		{Username: "alice", Password: "pw"},
		{Username: "   ", Password: "pw", Email: "a@x.com"},
	} {
		_, err := env.users.Register(context.Background(), in)
		assert.ErrorIs(t, err, common.ErrBadRequest, "%+v", in)
	}

	assert.Zero(t, env.count(t, &models.User{}))
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	u, err := env.users.Verify(ctx, "alice", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	_, wrongPassword := env.users.Verify(ctx, "alice", "nope")
	_, unknownUser := env.users.Verify(ctx, "mallory", "pw-alice")

	assert.ErrorIs(t, wrongPassword, common.ErrUnauthorized)
	assert.ErrorIs(t, unknownUser, common.ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	_, emptyPassword := env.users.Verify(ctx, "alice", "")
	assert.ErrorIs(t, emptyPassword, ErrInvalidCredentials)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	token, err := env.users.Login(context.Background(), "alice", "pw-alice")
	require.NoError(t, err)

	userID, err := env.issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, userID)

	token, err = env.users.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Empty(t, token)
}
