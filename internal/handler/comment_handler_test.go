package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/blogman/internal/model"
)

// mockCommentService はCommentServiceInterfaceのモック実装。
type mockCommentService struct {
	addCommentFn   func(ctx context.Context, userID, postID, text string) (*model.Comment, error)
	listCommentsFn func(ctx context.Context, postID string) ([]*model.Comment, error)
}

func (m *mockCommentService) AddComment(ctx context.Context, userID, postID, text string) (*model.Comment, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, userID, postID, text)
	}
	return &model.Comment{}, nil
}

func (m *mockCommentService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, postID)
	}
	return []*model.Comment{}, nil
}

var _ CommentServiceInterface = (*mockCommentService)(nil)

func TestCommentHandler_AddComment_Success(t *testing.T) {
	h := NewCommentHandler(&mockCommentService{
		addCommentFn: func(_ context.Context, userID, postID, text string) (*model.Comment, error) {
			if userID != "user-2" || postID != testPostID || text != "nice" {
				t.Errorf("AddComment(%q, %q, %q)", userID, postID, text)
			}
			now := time.Now()
			return &model.Comment{
				ID:        "comment-1",
				PostID:    postID,
				AuthorID:  userID,
				Author:    model.Author{ID: userID, Username: "bob"},
				Text:      text,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/posts/"+testPostID+"/comments", `{"text":"nice"}`)
	req = withUserID(withChiURLParam(req, "id", testPostID), "user-2")
	w := httptest.NewRecorder()
	h.AddComment(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	body := decodeBody(t, w)
	if body["postId"] != testPostID || body["text"] != "nice" {
		t.Errorf("body = %v", body)
	}
	author, _ := body["author"].(map[string]any)
	if author["id"] != "user-2" || author["username"] != "bob" {
		t.Errorf("author = %v", author)
	}
}

func TestCommentHandler_AddComment_PostNotFound(t *testing.T) {
	h := NewCommentHandler(&mockCommentService{
		addCommentFn: func(context.Context, string, string, string) (*model.Comment, error) {
			return nil, model.NewPostNotFoundError()
		},
	})

	req := jsonRequest(http.MethodPost, "/posts/"+testPostID+"/comments", `{"text":"nice"}`)
	req = withUserID(withChiURLParam(req, "id", testPostID), "user-2")
	w := httptest.NewRecorder()
	h.AddComment(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCommentHandler_AddComment_InvalidIDCheckedBeforeBody(t *testing.T) {
	h := NewCommentHandler(&mockCommentService{
		addCommentFn: func(context.Context, string, string, string) (*model.Comment, error) {
			t.Error("AddComment must not be called")
			return nil, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/posts/bad/comments", `not json`)
	req = withUserID(withChiURLParam(req, "id", "bad"), "user-2")
	w := httptest.NewRecorder()
	h.AddComment(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Invalid post ID" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestCommentHandler_AddComment_NoUser(t *testing.T) {
	h := NewCommentHandler(&mockCommentService{})

	req := withChiURLParam(jsonRequest(http.MethodPost, "/posts/x/comments", `{"text":"a"}`), "id", "x")
	w := httptest.NewRecorder()
	h.AddComment(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCommentHandler_ListComments(t *testing.T) {
	h := NewCommentHandler(&mockCommentService{
		listCommentsFn: func(_ context.Context, postID string) ([]*model.Comment, error) {
			if postID == "bad" {
				return nil, model.NewInvalidIDError("post")
			}
			return []*model.Comment{}, nil
		},
	})

	w := httptest.NewRecorder()
	h.ListComments(w, withChiURLParam(httptest.NewRequest(http.MethodGet, "/posts/x/comments", nil), "id", testPostID))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}

	w = httptest.NewRecorder()
	h.ListComments(w, withChiURLParam(httptest.NewRequest(http.MethodGet, "/posts/bad/comments", nil), "id", "bad"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
