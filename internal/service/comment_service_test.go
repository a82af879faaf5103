package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func newCommentFixture(t *testing.T) (*CommentService, *repotest.Blogs, *domain.Blog) {
	t.Helper()
	blogs := repotest.NewBlogs()
	blog := &domain.Blog{Title: "t", Description: "d", UserID: "owner"}
	require.NoError(t, blogs.Create(context.Background(), blog))

	svc := NewCommentService(CommentDependencies{
		BlogRepo:    blogs,
		CommentRepo: repotest.NewComments(blogs),
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return svc, blogs, blog
}

func TestCommentService_Lifecycle(t *testing.T) {
	svc, blogs, blog := newCommentFixture(t)
	ctx := context.Background()
	author := claimsFor("u1", domain.RoleUser)

	comment, err := svc.Create(ctx, author, blog.ID, " nice post ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Comment)
	assert.Equal(t, "u1", comment.UserID)

	stored, err := blogs.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)

	list, err := svc.List(ctx, blog.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := svc.Update(ctx, author, blog.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment)

	require.NoError(t, svc.Delete(ctx, author, blog.ID, comment.ID))
	stored, err = blogs.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CommentCount)
}

func TestCommentService_Authorization(t *testing.T) {
	svc, _, blog := newCommentFixture(t)
	ctx := context.Background()
	author := claimsFor("u1", domain.RoleUser)
	other := claimsFor("u2", domain.RoleUser)
	admin := claimsFor("a1", domain.RoleAdmin)

	comment, err := svc.Create(ctx, author, blog.ID, "mine")
	require.NoError(t, err)

	_, err = svc.Update(ctx, other, blog.ID, comment.ID, "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.Update(ctx, admin, blog.ID, comment.ID, "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "edits are limited to the author")

	err = svc.Delete(ctx, other, blog.ID, comment.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	assert.NoError(t, svc.Delete(ctx, admin, blog.ID, comment.ID))
}

func TestCommentService_NotFound(t *testing.T) {
	svc, _, blog := newCommentFixture(t)
	ctx := context.Background()
	user := claimsFor("u1", domain.RoleUser)

	_, err := svc.Create(ctx, user, "missing", "hi")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.List(ctx, "missing", Page{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Update(ctx, user, blog.ID, "missing", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = svc.Delete(ctx, claimsFor("u2", domain.RoleUser), blog.ID, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := strings.Repeat("é", previewLength+5)
	got := preview(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, previewLength+3, len([]rune(got)))
}

func TestCommentService_RejectsBlankText(t *testing.T) {
	svc, blogs, blog := newCommentFixture(t)
	ctx := context.Background()
	author := claimsFor("u1", domain.RoleUser)

	for name, text := range map[string]string{
		"empty":      "",
		"whitespace": " \t\n ",
		"too long":   strings.Repeat("c", 2001),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, author, blog.ID, text)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}

	stored, err := blogs.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.CommentCount)

	comment, err := svc.Create(ctx, author, blog.ID, "first")
	require.NoError(t, err)
	_, err = svc.Update(ctx, author, blog.ID, comment.ID, "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	list, err := svc.List(ctx, blog.ID, Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Comment)
}
