package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRepository manages blog comments and the parent comment_count.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, blogID, id string) (*domain.Comment, error)
	ListByBlog(ctx context.Context, blogID string, skip, limit int) ([]domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, blogID, id string) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT c.id::text, c.comment, c.blog_id::text, c.user_id::text, u.username, c.created_at, c.updated_at
        FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.Comment,
		&comment.BlogID,
		&comment.UserID,
		&comment.UserName,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `
        INSERT INTO comments (comment, blog_id, user_id)
        VALUES ($1, $2, $3)
        RETURNING id::text, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert, comment.Comment, comment.BlogID, comment.UserID).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return mapWriteError(err)
	}

	cmd, err := tx.Exec(ctx, `UPDATE blogs SET comment_count = comment_count + 1 WHERE id=$1`, comment.BlogID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, comment.UserID).Scan(&comment.UserName); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *commentRepository) GetByID(ctx context.Context, blogID, id string) (*domain.Comment, error) {
	query := commentSelect + ` WHERE c.blog_id=$1 AND c.id=$2`
	return scanComment(r.pool.QueryRow(ctx, query, blogID, id))
}

func (r *commentRepository) ListByBlog(ctx context.Context, blogID string, skip, limit int) ([]domain.Comment, error) {
	query := commentSelect + ` WHERE c.blog_id=$1 ORDER BY c.created_at ASC OFFSET $2 LIMIT $3`
	rows, err := r.pool.Query(ctx, query, blogID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET comment=$1, updated_at=NOW()
        WHERE id=$2 AND blog_id=$3
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, comment.Comment, comment.ID, comment.BlogID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, blogID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM comments WHERE id=$1 AND blog_id=$2`, id, blogID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`UPDATE blogs SET comment_count = GREATEST(comment_count - 1, 0) WHERE id=$1`, blogID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
