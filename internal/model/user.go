// Package model はドメインモデルを定義する。
package model

import "time"

// User はブログの利用ユーザーを表す。
// PasswordHashはAPIレスポンスに含めてはならない。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Author は投稿・コメントに表示する著者情報。
// ユーザーのうち外部に公開してよい項目のみを持つ。
type Author struct {
	ID       string
	Username string
}

// Claims はトークンから復元した認証情報を表す。永続化しない。
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
