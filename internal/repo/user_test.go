package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
)

// userFixture returns a domain.User with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func userFixture() domain.User {
	return domain.User{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfakeh",
	}
}

// createTestUser inserts a user fixture through the repo and fails the test on
// error. Used by the trip and itinerary tests, which need a user row for the
// foreign key.
func createTestUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	user, err := repo.NewUserRepo(tx).Create(context.Background(), userFixture())
	require.NoError(t, err, "create user fixture")
	return user
}

func TestUserRepo_Create(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	input := userFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Email, got.Email)
	assert.Equal(t, input.PasswordHash, got.PasswordHash)
	assert.False(t, got.Verified, "new users start unverified")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	_, err = r.Create(ctx, userFixture())

	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	got, err := r.GetByEmail(ctx, created.Email)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	_, err := r.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_MarkVerified(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	require.NoError(t, r.MarkVerified(ctx, created.ID))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestUserRepo_MarkVerified_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	err := r.MarkVerified(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ConsumeVerification(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	expires := time.Now().Add(15 * time.Minute)
	require.NoError(t, r.CreateVerification(ctx, created.ID, "123456", expires))

	userID, err := r.ConsumeVerification(ctx, created.Email, "123456")

	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)

	// The code is single-use.
	_, err = r.ConsumeVerification(ctx, created.Email, "123456")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ConsumeVerification_WrongCode(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	require.NoError(t, r.CreateVerification(ctx, created.ID, "123456", time.Now().Add(15*time.Minute)))

	_, err = r.ConsumeVerification(ctx, created.Email, "654321")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ConsumeVerification_Expired(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	require.NoError(t, r.CreateVerification(ctx, created.ID, "123456", time.Now().Add(-time.Minute)))

	_, err = r.ConsumeVerification(ctx, created.Email, "123456")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_CreateVerification_ReplacesPrevious(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	expires := time.Now().Add(15 * time.Minute)
	require.NoError(t, r.CreateVerification(ctx, created.ID, "111111", expires))
	require.NoError(t, r.CreateVerification(ctx, created.ID, "222222", expires))

	// Old code no longer works, new one does.
	_, err = r.ConsumeVerification(ctx, created.Email, "111111")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	userID, err := r.ConsumeVerification(ctx, created.Email, "222222")
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
}
