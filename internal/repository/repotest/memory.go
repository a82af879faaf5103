// Package repotest provides in-memory repositories for tests. Missing rows
// surface as pgx.ErrNoRows and duplicates as repository.DuplicateError,
// matching the Postgres implementations.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

// NewUsers returns an empty user store.
func NewUsers() *Users {
	return &Users{users: make(map[string]*domain.User)}
}

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return &repository.DuplicateError{Constraint: "users_email_key"}
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *Users) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *Users) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *Users) UpdateProfile(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *Users) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *Users) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	u.IsActive = false
	u.DeletedAt = &now
	return nil
}

// Blogs is an in-memory repository.BlogRepository. CreateErr, when set,
// fails every Create.
type Blogs struct {
	mu        sync.Mutex
	seq       int
	blogs     map[string]*domain.Blog
	likes     map[string]bool
	CreateErr error
}

// NewBlogs returns an empty blog store.
func NewBlogs() *Blogs {
	return &Blogs{blogs: make(map[string]*domain.Blog), likes: make(map[string]bool)}
}

func (r *Blogs) Create(_ context.Context, blog *domain.Blog) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	blog.ID = uuid.NewString()
	blog.IsActive = true
	blog.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	stored := *blog
	r.blogs[blog.ID] = &stored
	return nil
}

func (r *Blogs) GetByID(_ context.Context, id string) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (r *Blogs) sorted(match func(*domain.Blog) bool) []domain.Blog {
	result := make([]domain.Blog, 0)
	for _, b := range r.blogs {
		if match(b) {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (r *Blogs) List(_ context.Context, skip, limit int) ([]domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(*domain.Blog) bool { return true })
	if skip >= len(all) {
		return []domain.Blog{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *Blogs) ListByUser(_ context.Context, userID string) ([]domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(b *domain.Blog) bool { return b.UserID == userID }), nil
}

func (r *Blogs) Update(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[blog.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *blog
	r.blogs[blog.ID] = &stored
	return nil
}

func (r *Blogs) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.blogs, id)
	return nil
}

func (r *Blogs) ToggleLike(_ context.Context, blogID, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[blogID]
	if !ok {
		return false, 0, pgx.ErrNoRows
	}
	key := blogID + "|" + userID
	if r.likes[key] {
		delete(r.likes, key)
		b.LikeCount--
		return false, b.LikeCount, nil
	}
	r.likes[key] = true
	b.LikeCount++
	return true, b.LikeCount, nil
}

// Comments is an in-memory repository.CommentRepository that keeps the
// comment_count of the linked Blogs in step.
type Comments struct {
	mu       sync.Mutex
	seq      int
	blogs    *Blogs
	comments map[string]*domain.Comment
}

// NewComments returns an empty comment store bound to blogs.
func NewComments(blogs *Blogs) *Comments {
	return &Comments{blogs: blogs, comments: make(map[string]*domain.Comment)}
}

func (r *Comments) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored

	r.blogs.mu.Lock()
	defer r.blogs.mu.Unlock()
	if b, ok := r.blogs.blogs[comment.BlogID]; ok {
		b.CommentCount++
	}
	return nil
}

func (r *Comments) GetByID(_ context.Context, blogID, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.BlogID != blogID {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *Comments) ListByBlog(_ context.Context, blogID string, skip, limit int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Comment, 0)
	for _, c := range r.comments {
		if c.BlogID == blogID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if skip >= len(result) {
		return []domain.Comment{}, nil
	}
	end := skip + limit
	if end > len(result) {
		end = len(result)
	}
	return result[skip:end], nil
}

func (r *Comments) Update(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *Comments) Delete(_ context.Context, blogID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.BlogID != blogID {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)

	r.blogs.mu.Lock()
	defer r.blogs.mu.Unlock()
	if b, ok := r.blogs.blogs[blogID]; ok && b.CommentCount > 0 {
		b.CommentCount--
	}
	return nil
}

var (
	_ repository.UserRepository    = (*Users)(nil)
	_ repository.BlogRepository    = (*Blogs)(nil)
	_ repository.CommentRepository = (*Comments)(nil)
)
