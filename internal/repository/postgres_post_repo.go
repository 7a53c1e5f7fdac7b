package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/model"
)

// postColumns は投稿取得時の共通カラム。postsをp、usersをuとして参照する。
// 著者のユーザーはpassword_hashを含めず、usernameのみを解決する。
const postColumns = `p.id, p.title, p.body, p.author_id, COALESCE(u.username, ''), p.created_at, p.updated_at`

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// Create は投稿を作成し、著者名を解決した投稿を返す。
func (r *PostgresPostRepo) Create(ctx context.Context, title, body, authorID string) (*model.Post, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post ID: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`WITH p AS (
		     INSERT INTO posts (id, title, body, author_id)
		     VALUES ($1, $2, $3, $4)
		     RETURNING id, title, body, author_id, created_at, updated_at
		 )
		 SELECT `+postColumns+`
		 FROM p LEFT JOIN users u ON u.id = p.author_id`,
		id.String(), title, body, authorID,
	)

	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

// List は全投稿を作成順に返す。
func (r *PostgresPostRepo) List(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p LEFT JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return collectPosts(rows)
}

// ListByAuthor は指定ユーザーの投稿を作成順に返す。
func (r *PostgresPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p LEFT JOIN users u ON u.id = p.author_id
		 WHERE p.author_id = $1
		 ORDER BY p.created_at, p.id`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return collectPosts(rows)
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p LEFT JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`,
		id,
	)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// UpdateByIDAndAuthor はIDと著者が一致する投稿を更新する。
// 所有者確認と更新を1文で行うため、確認と更新の間に状態が変わることはない。
func (r *PostgresPostRepo) UpdateByIDAndAuthor(ctx context.Context, id, authorID, title, body string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`WITH p AS (
		     UPDATE posts SET title = $3, body = $4, updated_at = now()
		     WHERE id = $1 AND author_id = $2
		     RETURNING id, title, body, author_id, created_at, updated_at
		 )
		 SELECT `+postColumns+`
		 FROM p LEFT JOIN users u ON u.id = p.author_id`,
		id, authorID, title, body,
	)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// DeleteByIDAndAuthor はIDと著者が一致する投稿を削除する。
func (r *PostgresPostRepo) DeleteByIDAndAuthor(ctx context.Context, id, authorID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`,
		id, authorID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func scanPost(s rowScanner) (*model.Post, error) {
	post := &model.Post{}
	err := s.Scan(
		&post.ID, &post.Title, &post.Body, &post.AuthorID,
		&post.Author.Username, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	post.Author.ID = post.AuthorID
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]*model.Post, error) {
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
