package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// maxRequestBodyBytes はリクエストボディの上限サイズ。
const maxRequestBodyBytes = 1 << 20

// authorResponse は著者情報のAPIレスポンス。
type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Author    authorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"postId"`
	Author    authorResponse `json:"author"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Author:    authorResponse{ID: p.Author.ID, Username: p.Author.Username},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostListResponse(posts []*model.Post) []postResponse {
	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	return resp
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    authorResponse{ID: c.Author.ID, Username: c.Author.Username},
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentListResponse(comments []*model.Comment) []commentResponse {
	resp := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}
	return resp
}

// decodeJSONBody はリクエストボディをvにデコードする。
// 空のボディは空オブジェクトとして扱い、必須項目の検証はサービス層に委ねる。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return model.NewValidationError("Invalid request body")
	}
	return nil
}

// requireUserID は認証ミドルウェアが注入したユーザーIDを取得する。
// 取得できない場合はエラーレスポンスを書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, r, model.NewMissingTokenError())
		return "", false
	}
	return userID, true
}
