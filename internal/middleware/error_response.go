package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/blogman/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Category string `json:"category"`
}

// statusByCode はエラーコードとHTTPステータスの対応表。
var statusByCode = map[string]int{
	model.ErrCodeValidation:         http.StatusBadRequest,
	model.ErrCodeMissingToken:       http.StatusUnauthorized,
	model.ErrCodeInvalidToken:       http.StatusBadRequest,
	model.ErrCodeInvalidCredentials: http.StatusUnauthorized,
	model.ErrCodeInvalidID:          http.StatusBadRequest,
	model.ErrCodeNotFound:           http.StatusNotFound,
	model.ErrCodeForbidden:          http.StatusForbidden,
	model.ErrCodeRateLimited:        http.StatusTooManyRequests,
	model.ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	model.ErrCodeInternal:           http.StatusInternalServerError,
}

// StatusForCode はエラーコードに対応するHTTPステータスを返す。
// 未知のコードは500とする。
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError はエラーをJSONレスポンスに変換して書き込む。
// すべてのエラーはこの関数を通してクライアントに返す。
// *model.APIError以外のエラーは詳細をログにのみ記録し、500を返す。
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("unhandled error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apiErr = model.NewInternalError()
	}

	status := StatusForCode(apiErr.Code)
	if status >= http.StatusInternalServerError {
		if apiErr.Code != model.ErrCodeInternal {
			slog.Error("request failed",
				slog.String("code", apiErr.Code),
				slog.String("message", apiErr.Message),
				slog.String("path", r.URL.Path),
			)
		}
	} else {
		slog.Warn("request rejected",
			slog.String("code", apiErr.Code),
			slog.String("message", apiErr.Message),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, ErrorResponseBody{
		Error:    apiErr.Message,
		Code:     apiErr.Code,
		Category: apiErr.Category,
	})
}

// WriteJSON は値をJSONとして書き込む。
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
