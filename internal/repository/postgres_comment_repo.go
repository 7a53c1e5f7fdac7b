package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/model"
)

const commentColumns = `c.id, c.post_id, c.author_id, COALESCE(u.username, ''), c.text, c.created_at, c.updated_at`

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// Create はコメントを作成し、著者名を解決したコメントを返す。
func (r *PostgresCommentRepo) Create(ctx context.Context, postID, authorID, text string) (*model.Comment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment ID: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`WITH c AS (
		     INSERT INTO comments (id, post_id, author_id, text)
		     VALUES ($1, $2, $3, $4)
		     RETURNING id, post_id, author_id, text, created_at, updated_at
		 )
		 SELECT `+commentColumns+`
		 FROM c LEFT JOIN users u ON u.id = c.author_id`,
		id.String(), postID, authorID, text,
	)

	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return comment, nil
}

// ListByPostID は指定投稿のコメントを作成順に返す。
func (r *PostgresCommentRepo) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c LEFT JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at, c.id`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// DeleteByPostID は指定投稿のコメントをすべて削除する。
func (r *PostgresCommentRepo) DeleteByPostID(ctx context.Context, postID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE post_id = $1`,
		postID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func scanComment(s rowScanner) (*model.Comment, error) {
	comment := &model.Comment{}
	err := s.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID,
		&comment.Author.Username, &comment.Text,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	comment.Author.ID = comment.AuthorID
	return comment, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
