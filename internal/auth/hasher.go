package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのbcryptコスト。
const bcryptCost = 10

// ErrEmptyPassword は空パスワードをハッシュしようとした場合のエラー。
var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher はパスワードのハッシュ化と照合を提供する。
type PasswordHasher interface {
	// Hash はソルト付きハッシュを生成する。同じ入力でも毎回異なる値を返す。
	Hash(password string) (string, error)

	// Verify はパスワードがハッシュと一致するかを返す。
	// ハッシュの形式が不正な場合もfalseを返す。
	Verify(password, hash string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はコスト10のBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcryptCost}
}

// Hash はbcryptハッシュを生成する。
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify はbcryptの定数時間比較でパスワードを照合する。
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
