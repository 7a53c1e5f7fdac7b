package model

import "time"

// Post はブログ投稿を表す。
// AuthorIDは作成時に一度だけ設定され、以後変更されない。
type Post struct {
	ID        string
	Title     string
	Body      string
	AuthorID  string
	Author    Author // 読み取り時にusersから解決される
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment は投稿へのコメントを表す。
// PostIDとAuthorIDは作成時に設定され、以後変更されない。
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Author    Author
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
