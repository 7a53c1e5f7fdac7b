package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/blogman/internal/model"
)

// DefaultTokenTTL はトークンの既定の有効期間。
const DefaultTokenTTL = time.Hour

// tokenClaims はJWTのペイロード。
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenManager はHS256署名のアクセストークンを発行・検証する。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager はTokenManagerを生成する。ttlが0以下の場合はDefaultTokenTTLを使用する。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はユーザーIDを含むトークンを発行する。
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名・有効期限・ペイロードを検証する。
// 失敗時はINVALID_TOKENの*model.APIErrorを返す。
func (m *TokenManager) Verify(token string) (*model.Claims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, model.NewInvalidTokenError(tokenErrorReason(err))
	}

	if claims.UserID == "" {
		return nil, model.NewInvalidTokenError("Token missing userId")
	}

	result := &model.Claims{UserID: claims.UserID}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// tokenErrorReason は検証エラーをレスポンスに含める短い理由に変換する。
func tokenErrorReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "jwt malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid signature"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "jwt expired"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "jwt missing required claim"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "invalid algorithm"
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return "jwt not active"
	default:
		return err.Error()
	}
}
