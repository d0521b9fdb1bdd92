package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizhub/quizhub-api/internal/domain"
)

func seedUser(t *testing.T, repo *fakeUserRepo) domain.User {
	t.Helper()

	user, err := repo.Create(context.Background(), domain.User{
		Name:     "Jane",
		Surname:  "Doe",
		Age:      30,
		Email:    "jane@example.com",
		Password: "hashed",
	})
	require.NoError(t, err)

	return user
}

func TestUserService_UpdateUser_PartialUpdate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo)

	name := "Janet"
	updated, err := svc.UpdateUser(context.Background(), user.ID, domain.UserUpdate{Name: &name}, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Janet", updated.Name)
	// Untouched fields keep their stored values.
	assert.Equal(t, "Doe", updated.Surname)
	assert.Equal(t, 30, updated.Age)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestUserService_UpdateUser_SelfOnly(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo)

	name := "Janet"
	_, err := svc.UpdateUser(context.Background(), user.ID, domain.UserUpdate{Name: &name}, user.ID+1)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestUserService_UpdateUser_RehashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo)

	password := "newpassword1"
	updated, err := svc.UpdateUser(context.Background(), user.ID, domain.UserUpdate{Password: &password}, user.ID)
	require.NoError(t, err)

	assert.NotEqual(t, "newpassword1", updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword1")))
}

func TestUserService_DeleteUser_SelfOnly(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	user := seedUser(t, repo)

	err := svc.DeleteUser(context.Background(), user.ID, user.ID+1)
	assert.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID, user.ID))

	_, err = svc.GetUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
