package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// BlogRepository manages blog posts and their likes.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context, skip, limit int) ([]domain.Blog, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, blogID, userID string) (liked bool, likeCount int, err error)
}

type blogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository builds repository.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

const blogColumns = `id::text, title, description, image_url, like_count, comment_count,
        user_id::text, is_active, created_at, updated_at`

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var blog domain.Blog
	if err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Description,
		&blog.ImageURL,
		&blog.LikeCount,
		&blog.CommentCount,
		&blog.UserID,
		&blog.IsActive,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &blog, nil
}

func collectBlogs(rows pgx.Rows) ([]domain.Blog, error) {
	defer rows.Close()

	result := make([]domain.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *blog)
	}
	return result, rows.Err()
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	const query = `
        INSERT INTO blogs (title, description, image_url, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, like_count, comment_count, is_active, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Description,
		blog.ImageURL,
		blog.UserID,
	).Scan(&blog.ID, &blog.LikeCount, &blog.CommentCount, &blog.IsActive, &blog.CreatedAt, &blog.UpdatedAt)
	return mapWriteError(err)
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id=$1`
	return scanBlog(r.pool.QueryRow(ctx, query, id))
}

func (r *blogRepository) List(ctx context.Context, skip, limit int) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + `
        FROM blogs ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectBlogs(rows)
}

func (r *blogRepository) ListByUser(ctx context.Context, userID string) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + `
        FROM blogs WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectBlogs(rows)
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	const query = `
        UPDATE blogs SET title=$1, description=$2, image_url=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Description,
		blog.ImageURL,
		blog.ID,
	).Scan(&blog.UpdatedAt)
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ToggleLike adds the caller's like, or removes it when already present,
// and keeps like_count in step within one transaction.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID string) (bool, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	// lock the blog row so concurrent toggles serialize
	var likeCount int
	if err := tx.QueryRow(ctx, `SELECT like_count FROM blogs WHERE id=$1 FOR UPDATE`, blogID).Scan(&likeCount); err != nil {
		return false, 0, err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM blog_likes WHERE blog_id=$1 AND user_id=$2`, blogID, userID)
	if err != nil {
		return false, 0, err
	}

	liked := cmd.RowsAffected() == 0
	var delta string
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO blog_likes (blog_id, user_id) VALUES ($1, $2)`, blogID, userID); err != nil {
			return false, 0, err
		}
		delta = `like_count + 1`
	} else {
		delta = `GREATEST(like_count - 1, 0)`
	}

	if err := tx.QueryRow(ctx,
		`UPDATE blogs SET like_count=`+delta+` WHERE id=$1 RETURNING like_count`, blogID,
	).Scan(&likeCount); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}
