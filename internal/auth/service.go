package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// RefreshRevalidate がtrueの場合、トークン再発行時にもトリプルを
	// データストアと突き合わせる（認証ゲートと同じ検証）。
	// falseの場合は署名検証のみで再発行する。デフォルトはfalse。
	RefreshRevalidate bool
}

// Service は認証に関するビジネスロジックを提供する。
// 資格情報のハッシュ化・トークン発行・ユーザー解決をオーケストレーションする。
type Service struct {
	hasher   *PasswordHasher
	tokens   *TokenService
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	hasher *PasswordHasher,
	tokens *TokenService,
	userRepo repository.UserRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		hasher:   hasher,
		tokens:   tokens,
		userRepo: userRepo,
		config:   config,
	}
}

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Username string
}

// Register は新規ユーザーを登録し、作成したユーザーを返す。
//
// メールアドレスとユーザー名の重複チェックは独立した2回の検索で行う。
// チェックとINSERTの間はトランザクションで保護しないため、並行登録との
// 競合はDBの一意制約で検出される（その場合も409として報告する）。
// 両方重複→EmailAndUsernameTaken、メールのみ→EmailTaken、
// ユーザー名のみ→UsernameTakenの優先順で報告する。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	byEmail, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複チェックに失敗しました: %w", err)
	}

	byUsername, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー名の重複チェックに失敗しました: %w", err)
	}

	switch {
	case byEmail != nil && byUsername != nil:
		return nil, model.NewEmailAndUsernameTakenError()
	case byEmail != nil:
		return nil, model.NewEmailTakenError()
	case byUsername != nil:
		return nil, model.NewUsernameTakenError()
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 存在チェック通過後に並行登録が先行した場合、一意制約違反になる。
		// どちらの列が衝突したかはここでは判別できないため、再検索して報告する。
		if repository.IsUniqueViolation(err) {
			return nil, s.classifyConflict(ctx, input.Email, input.Username)
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// classifyConflict は一意制約違反後にどの列が衝突したかを特定する。
func (s *Service) classifyConflict(ctx context.Context, email, username string) error {
	byEmail, _ := s.userRepo.FindByEmail(ctx, email)
	byUsername, _ := s.userRepo.FindByUsername(ctx, username)

	switch {
	case byEmail != nil && byUsername != nil:
		return model.NewEmailAndUsernameTakenError()
	case byUsername != nil:
		return model.NewUsernameTakenError()
	default:
		return model.NewEmailTakenError()
	}
}

// Login は資格情報を検証し、署名付きトークンとユーザーを返す。
// 未登録メールアドレスとパスワード不一致は別のエラーとして報告する。
// 連続失敗のロックアウトやスロットリングは行わない。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return "", nil, model.NewEmailNotRegisteredError()
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, model.NewPasswordIncorrectError()
	}

	token, err := s.tokens.Issue(model.TokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return "", nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return token, user, nil
}

// Refresh は有効なトークンから同一クレームの新しいトークンを発行する。
// デフォルトでは署名検証のみ行い、ユーザーの現存確認はしない
// （認証ゲートとの非対称は仕様通り）。RefreshRevalidateが有効な場合は
// ゲートと同様にトリプルをデータストアと突き合わせる。
func (s *Service) Refresh(ctx context.Context, tokenStr string) (string, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return "", model.NewInvalidTokenError()
	}

	if s.config.RefreshRevalidate {
		user, err := s.userRepo.FindByTriple(ctx, claims.UserID, claims.Email, claims.Username)
		if err != nil {
			return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
		}
		if user == nil {
			return "", model.NewInvalidTokenError()
		}
	}

	newToken, err := s.tokens.Issue(claims)
	if err != nil {
		return "", fmt.Errorf("トークンの再発行に失敗しました: %w", err)
	}

	return newToken, nil
}

// ResolveToken はトークンを検証し、クレームのトリプルが現存するユーザーと
// 完全一致することを確認する。認証ゲートが使用する。
// 署名が有効でも、発行後にEmailやUsernameが変更されたトークンは拒否される。
func (s *Service) ResolveToken(ctx context.Context, tokenStr string) (model.TokenClaims, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return model.TokenClaims{}, model.NewInvalidTokenError()
	}

	user, err := s.userRepo.FindByTriple(ctx, claims.UserID, claims.Email, claims.Username)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.TokenClaims{}, model.NewUnauthorizedError()
	}

	return claims, nil
}
