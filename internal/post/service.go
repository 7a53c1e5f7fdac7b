// Package post は投稿のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
	"github.com/hitoshi/blogman/internal/security"
)

// CommentDeleter は投稿削除時にコメントを削除するインターフェース。
type CommentDeleter interface {
	DeleteByPostID(ctx context.Context, postID string) (int64, error)
}

// ContentRecorder は作成されたコンテンツ数を記録するインターフェース。
// metrics.Collectorが実装する。
type ContentRecorder interface {
	RecordContentCreated(kind string)
}

// Service は投稿のサービス層。
// 作成・取得・所有者限定の更新と削除を提供する。
type Service struct {
	postRepo  repository.PostRepository
	comments  CommentDeleter
	sanitizer security.ContentSanitizerService
	recorder  ContentRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	postRepo repository.PostRepository,
	comments CommentDeleter,
	sanitizer security.ContentSanitizerService,
	recorder ContentRecorder,
) *Service {
	return &Service{
		postRepo:  postRepo,
		comments:  comments,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// CreatePost は投稿を作成する。著者はuserIDに固定される。
func (s *Service) CreatePost(ctx context.Context, userID, title, body string) (*model.Post, error) {
	title, body, err := s.sanitizePost(title, body)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.Create(ctx, title, body, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordContentCreated("post")
	}
	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("user_id", userID),
	)
	return post, nil
}

// ListPosts は全投稿を作成順に返す。
func (s *Service) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

// ListPostsByUser は指定ユーザーの投稿を作成順に返す。
func (s *Service) ListPostsByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by user: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

// GetPost は指定IDの投稿を返す。IDの形式はストアへの問い合わせ前に検証する。
func (s *Service) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if err := model.ValidateID(id, "post"); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError()
	}
	return post, nil
}

// UpdatePost は所有者に限り投稿のタイトルと本文を更新する。
// 投稿が存在しない場合と所有者でない場合はいずれもFORBIDDENを返す。
func (s *Service) UpdatePost(ctx context.Context, userID, id, title, body string) (*model.Post, error) {
	if err := model.ValidateID(id, "post"); err != nil {
		return nil, err
	}

	title, body, err := s.sanitizePost(title, body)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.UpdateByIDAndAuthor(ctx, id, userID, title, body)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostForbiddenError()
	}

	slog.Info("post updated",
		slog.String("post_id", id),
		slog.String("user_id", userID),
	)
	return post, nil
}

// DeletePost は投稿のコメントをすべて削除した後、所有者に限り投稿を削除する。
// コメントの削除は所有者確認より先に無条件で行われる。
func (s *Service) DeletePost(ctx context.Context, userID, id string) error {
	if err := model.ValidateID(id, "post"); err != nil {
		return err
	}

	removed, err := s.comments.DeleteByPostID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}

	deleted, err := s.postRepo.DeleteByIDAndAuthor(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		if removed > 0 {
			slog.Warn("comments removed but post was not deleted",
				slog.String("post_id", id),
				slog.String("user_id", userID),
				slog.Int64("comments_removed", removed),
			)
		}
		return model.NewPostForbiddenError()
	}

	slog.Info("post deleted",
		slog.String("post_id", id),
		slog.String("user_id", userID),
		slog.Int64("comments_removed", removed),
	)
	return nil
}

// sanitizePost はタイトルと本文をサニタイズし、いずれかが空であればエラーを返す。
func (s *Service) sanitizePost(title, body string) (string, string, error) {
	title = s.sanitizer.SanitizeText(title)
	body = s.sanitizer.SanitizeHTML(body)
	if title == "" || body == "" {
		return "", "", model.NewValidationError("Title and body are required")
	}
	return title, body, nil
}
