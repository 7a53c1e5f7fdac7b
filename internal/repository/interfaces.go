// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/blogman/internal/model"
)

// ErrUsernameTaken はユーザー名の一意制約違反を表す。
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsByUsername は指定ユーザー名のユーザーが存在するかを返す。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create はユーザーを作成し、採番されたIDを含むユーザーを返す。
	// ユーザー名が重複する場合はErrUsernameTakenをラップしたエラーを返す。
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
}

// PostRepository は投稿データの永続化インターフェース。
// 返却する投稿のAuthorは著者のユーザー名まで解決済みであること。
type PostRepository interface {
	// Create は投稿を作成する。ID・作成日時・更新日時はストア側で設定する。
	Create(ctx context.Context, title, body, authorID string) (*model.Post, error)

	// List は全投稿を作成順に返す。0件の場合は空スライスを返す。
	List(ctx context.Context) ([]*model.Post, error)

	// ListByAuthor は指定ユーザーの投稿を作成順に返す。0件の場合は空スライスを返す。
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// UpdateByIDAndAuthor はIDと著者が一致する投稿のタイトルと本文を1文で更新する。
	// 一致する投稿がない場合はnilを返す。
	UpdateByIDAndAuthor(ctx context.Context, id, authorID, title, body string) (*model.Post, error)

	// DeleteByIDAndAuthor はIDと著者が一致する投稿を1文で削除する。
	// 削除した場合はtrueを返す。
	DeleteByIDAndAuthor(ctx context.Context, id, authorID string) (bool, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを作成する。ID・作成日時・更新日時はストア側で設定する。
	Create(ctx context.Context, postID, authorID, text string) (*model.Comment, error)

	// ListByPostID は指定投稿のコメントを作成順に返す。0件の場合は空スライスを返す。
	ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error)

	// DeleteByPostID は指定投稿のコメントをすべて削除し、削除件数を返す。
	DeleteByPostID(ctx context.Context, postID string) (int64, error)
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}
