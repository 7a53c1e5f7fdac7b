// Package auth はパスワード認証、トークンの発行・検証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// TokenService はアクセストークンの発行と検証のインターフェース。
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (*model.Claims, error)
}

// OutcomeRecorder は認証結果を記録するインターフェース。
// metrics.Collectorが実装する。
type OutcomeRecorder interface {
	RecordLogin(outcome string)
	RecordRegistration(outcome string)
}

// 認証結果のラベル値
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// LoginResult はログイン成功時の結果を表す。
type LoginResult struct {
	Token  string
	UserID string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	recorder OutcomeRecorder

	// 存在しないユーザーのログイン時にも照合を行うためのダミーハッシュ
	dummyOnce sync.Once
	dummyHash string
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	recorder OutcomeRecorder,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
	}
}

// Register はユーザーを登録する。トークンは発行しない。
// ユーザー名の重複は内部エラーとして扱う。
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.recordRegistration(OutcomeRejected)
		return model.NewValidationError("Username and password are required")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.recordRegistration(OutcomeError)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, username, hashed)
	if err != nil {
		s.recordRegistration(OutcomeError)
		if errors.Is(err, repository.ErrUsernameTaken) {
			slog.Warn("registration failed: username already taken",
				slog.String("username", username),
			)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	s.recordRegistration(OutcomeSuccess)
	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return nil
}

// Login はユーザー名とパスワードを照合し、トークンを発行する。
// ユーザーが存在しない場合とパスワード不一致の場合は同一のエラーを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		s.recordLogin(OutcomeRejected)
		return nil, model.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.recordLogin(OutcomeError)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		// 応答時間からユーザーの存在を推測されないよう照合を行う
		s.hasher.Verify(password, s.getDummyHash())
		s.recordLogin(OutcomeRejected)
		return nil, model.NewInvalidCredentialsError()
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordLogin(OutcomeRejected)
		return nil, model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.recordLogin(OutcomeError)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordLogin(OutcomeSuccess)
	slog.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{Token: token, UserID: user.ID}, nil
}

// CheckUsernameExists は指定ユーザー名が登録済みかを返す。
func (s *Service) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, model.NewValidationError("Username is required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// Authenticate はAuthorizationヘッダーを検証し、ユーザーIDを返す。
// ヘッダーは "Bearer <token>" 形式で、空白区切りの2番目の要素をトークンとして扱う。
func (s *Service) Authenticate(_ context.Context, authorizationHeader string) (string, error) {
	if authorizationHeader == "" {
		return "", model.NewMissingTokenError()
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		return "", model.NewInvalidTokenError("jwt must be provided")
	}

	claims, err := s.tokens.Verify(fields[1])
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return "", apiErr
		}
		return "", model.NewInvalidTokenError(err.Error())
	}
	return claims.UserID, nil
}

func (s *Service) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash("blogman-dummy-password")
		if err != nil {
			slog.Error("failed to prepare dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

func (s *Service) recordLogin(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(outcome)
	}
}

func (s *Service) recordRegistration(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordRegistration(outcome)
	}
}
