package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/security"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = "u-1"
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newAuthTestService(repo *fakeUserRepo) *AuthService {
	tokens := security.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(repo, tokens, security.BcryptConfig{Cost: 4})
}

func TestSignup_IssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthTestService(repo)

	res, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, domain.RoleHost, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.NotEqual(t, "secret-pass", res.User.PasswordHash)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthTestService(repo)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Alice2", "alice@example.com", "secret-pass")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSignup_InvalidEmail(t *testing.T) {
	svc := newAuthTestService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), "Alice", "not-an-email", "secret-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthTestService(repo)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secret-pass")
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "alice@example.com", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthTestService(repo)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthTestService(repo)

	res, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secret-pass")
	require.NoError(t, err)
	res.User.IsActive = false

	_, err = svc.Login(context.Background(), "alice@example.com", "secret-pass")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}
