package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	CreatePost(ctx context.Context, userID, title, body string) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, userID, id, title, body string) (*model.Post, error)
	// DeletePost は投稿のコメントを削除してから、所有者に限り投稿を削除する。
	DeletePost(ctx context.Context, userID, id string) error
}

// PostHandler は投稿のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatePost は投稿を作成する。
// POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// ListPosts は全投稿を返す。
// GET /posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toPostListResponse(posts))
}

// ListMyPosts は認証ユーザー自身の投稿を返す。
// GET /posts/user
func (h *PostHandler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	posts, err := h.service.ListPostsByUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toPostListResponse(posts))
}

// GetPost は投稿を1件返す。
// GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// UpdatePost は所有者の投稿を更新する。
// PUT /posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
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

	var req postRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), userID, id, req.Title, req.Body)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// DeletePost は所有者の投稿とそのコメントを削除する。
// DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePost(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Post and associated comments deleted"})
}
