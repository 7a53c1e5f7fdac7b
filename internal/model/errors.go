// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は呼び出し元に返す分類済みエラーを表す。
// HTTPステータスはCodeから決定される（middleware.StatusForCode）。
type APIError struct {
	Code     string // エラーコード
	Message  string // レスポンスのerrorフィールドにそのまま出力される
	Category string // カテゴリ: auth, validation, content, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMissingToken       = "MISSING_TOKEN"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewMissingTokenError はAuthorizationヘッダー未指定エラーを生成する。
func NewMissingTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingToken,
		Message:  "Access denied: No token provided",
		Category: "auth",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
// reasonには検証に失敗した理由をそのまま含める。
func NewInvalidTokenError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "Invalid token: " + reason,
		Category: "auth",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー名の不一致とパスワードの不一致で同一のエラーを返すこと。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid credentials",
		Category: "auth",
	}
}

// NewInvalidIDError は識別子の形式不正エラーを生成する。
func NewInvalidIDError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("Invalid %s ID", resource),
		Category: "validation",
	}
}

// NewPostNotFoundError は投稿未検出エラーを生成する。
func NewPostNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  "Post not found",
		Category: "content",
	}
}

// NewRouteNotFoundError は存在しないエンドポイントへのリクエストのエラーを生成する。
func NewRouteNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  "Route not found",
		Category: "system",
	}
}

// NewMethodNotAllowedError はルートが対応しないHTTPメソッドのエラーを生成する。
func NewMethodNotAllowedError() *APIError {
	return &APIError{
		Code:     ErrCodeMethodNotAllowed,
		Message:  "Method not allowed",
		Category: "system",
	}
}

// NewPostForbiddenError は所有者限定操作の失敗エラーを生成する。
// 投稿が存在しない場合と所有者でない場合を区別しない。
func NewPostForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Not authorized or post not found",
		Category: "content",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests, please try again later",
		Category: "system",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal Server Error",
		Category: "system",
	}
}
