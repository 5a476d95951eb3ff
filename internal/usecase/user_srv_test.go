package usecase

import (
	"context"
	"testing"

	"library-lending/internal/dto/request"
	"library-lending/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserTestService(env *testEnv) *userService {
	return &userService{repo: env.repo, log: zap.NewNop()}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv()
	svc := newUserTestService(env)
	user := seedUser(env, "Lesia", "Ukrainka")

	t.Run("known user", func(t *testing.T) {
		resp, err := svc.GetProfile(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", resp.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.GetProfile(context.Background(), uuid.New())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	svc := newUserTestService(env)
	user := seedUser(env, "Lesia", "Ukrainka")
	user.PasswordHash = "old-hash"

	last := "Kosach"
	password := "new-secret"
	resp, err := svc.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{
		LastName: &last,
		Password: &password,
	})
	require.NoError(t, err)

	assert.Equal(t, "Kosach", resp.LastName)
	assert.Equal(t, "Lesia", resp.FirstName, "untouched fields keep their values")

	stored := env.users.users[user.ID]
	assert.NotEqual(t, "old-hash", stored.PasswordHash)
	assert.NotEqual(t, "new-secret", stored.PasswordHash, "password must be hashed")
}
