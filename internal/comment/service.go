// Package comment は投稿へのコメントのドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
	"github.com/hitoshi/blogman/internal/security"
)

// PostFinder はコメント対象の投稿を検索するインターフェース。
type PostFinder interface {
	FindByID(ctx context.Context, id string) (*model.Post, error)
}

// ContentRecorder は作成されたコンテンツ数を記録するインターフェース。
type ContentRecorder interface {
	RecordContentCreated(kind string)
}

// Service はコメントのサービス層。
type Service struct {
	commentRepo repository.CommentRepository
	posts       PostFinder
	sanitizer   security.ContentSanitizerService
	recorder    ContentRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	commentRepo repository.CommentRepository,
	posts PostFinder,
	sanitizer security.ContentSanitizerService,
	recorder ContentRecorder,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		posts:       posts,
		sanitizer:   sanitizer,
		recorder:    recorder,
	}
}

// AddComment は存在する投稿にコメントを追加する。
func (s *Service) AddComment(ctx context.Context, userID, postID, text string) (*model.Comment, error) {
	if err := model.ValidateID(postID, "post"); err != nil {
		return nil, err
	}

	text = s.sanitizer.SanitizeText(text)
	if text == "" {
		return nil, model.NewValidationError("Comment text is required")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError()
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordContentCreated("comment")
	}
	slog.Info("comment added",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID),
		slog.String("user_id", userID),
	)
	return comment, nil
}

// ListComments は投稿のコメントを作成順に返す。投稿の存在は確認しない。
func (s *Service) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if err := model.ValidateID(postID, "post"); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}
