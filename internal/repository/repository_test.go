package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/persistence"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("blogdb"),
		postgres.WithUsername("blog"),
		postgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(pool, zap.NewNop()))
	return pool
}

func createUser(t *testing.T, repo UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$placeholderhashvalue",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRepositories_Postgres(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	blogs := NewBlogRepository(pool)
	comments := NewCommentRepository(pool)

	t.Run("user roundtrip and duplicate detection", func(t *testing.T) {
		user := createUser(t, users, "alice")
		assert.NotEmpty(t, user.ID)

		got, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.True(t, got.IsActive)

		dup := &domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x", Role: domain.RoleUser, IsActive: true}
		err = users.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicate))
	})

	t.Run("soft delete keeps the row", func(t *testing.T) {
		user := createUser(t, users, "bob")
		require.NoError(t, users.SoftDelete(ctx, user.ID))

		got, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.NotNil(t, got.DeletedAt)

		assert.ErrorIs(t, users.SoftDelete(ctx, user.ID), pgx.ErrNoRows)
	})

	t.Run("like toggles and counts", func(t *testing.T) {
		owner := createUser(t, users, "carol")
		fan := createUser(t, users, "dave")

		blog := &domain.Blog{Title: "t", Description: "d", UserID: owner.ID}
		require.NoError(t, blogs.Create(ctx, blog))

		liked, count, err := blogs.ToggleLike(ctx, blog.ID, fan.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, count)

		liked, count, err = blogs.ToggleLike(ctx, blog.ID, fan.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, count)
	})

	t.Run("concurrent likes from distinct users", func(t *testing.T) {
		owner := createUser(t, users, "erin")
		blog := &domain.Blog{Title: "t", Description: "d", UserID: owner.ID}
		require.NoError(t, blogs.Create(ctx, blog))

		fans := make([]*domain.User, 5)
		for i := range fans {
			fans[i] = createUser(t, users, "fan"+string(rune('a'+i)))
		}

		var wg sync.WaitGroup
		for _, fan := range fans {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, _, err := blogs.ToggleLike(ctx, blog.ID, id)
				assert.NoError(t, err)
			}(fan.ID)
		}
		wg.Wait()

		got, err := blogs.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, len(fans), got.LikeCount)
	})

	t.Run("comment count follows create and delete", func(t *testing.T) {
		owner := createUser(t, users, "frank")
		blog := &domain.Blog{Title: "t", Description: "d", UserID: owner.ID}
		require.NoError(t, blogs.Create(ctx, blog))

		comment := &domain.Comment{Comment: "hello", BlogID: blog.ID, UserID: owner.ID}
		require.NoError(t, comments.Create(ctx, comment))
		assert.Equal(t, "frank", comment.UserName)

		got, err := blogs.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CommentCount)

		list, err := comments.ListByBlog(ctx, blog.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, comments.Delete(ctx, blog.ID, comment.ID))
		assert.ErrorIs(t, comments.Delete(ctx, blog.ID, comment.ID), pgx.ErrNoRows)

		got, err = blogs.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.CommentCount)
	})

	t.Run("deleting a blog cascades", func(t *testing.T) {
		owner := createUser(t, users, "grace")
		blog := &domain.Blog{Title: "t", Description: "d", UserID: owner.ID}
		require.NoError(t, blogs.Create(ctx, blog))
		comment := &domain.Comment{Comment: "c", BlogID: blog.ID, UserID: owner.ID}
		require.NoError(t, comments.Create(ctx, comment))

		require.NoError(t, blogs.Delete(ctx, blog.ID))

		_, err := blogs.GetByID(ctx, blog.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		_, err = comments.GetByID(ctx, blog.ID, comment.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}
