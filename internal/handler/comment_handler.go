package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	AddComment(ctx context.Context, userID, postID, text string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
}

// CommentHandler はコメントのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Text string `json:"text"`
}

// AddComment は投稿にコメントを追加する。
// POST /posts/{id}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// 本文の解析より先にIDを検証する
	id := chi.URLParam(r, "id")
	if err := model.ValidateID(id, "post"); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, id, req.Text)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// ListComments は投稿のコメント一覧を返す。
// GET /posts/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toCommentListResponse(comments))
}
