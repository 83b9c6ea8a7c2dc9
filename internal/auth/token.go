package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/todoman/internal/model"
)

// ErrNilClaims は空のクレームでトークンを発行しようとした場合のエラー。
var ErrNilClaims = errors.New("token claims must not be empty")

// ErrInvalidToken は署名不一致・形式不正を含むトークン検証失敗のエラー。
var ErrInvalidToken = errors.New("invalid token")

// tokenClaims はJWTペイロードの内部表現。
type tokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService は署名付きトークンの発行と検証を提供する。
// 署名鍵はプロセス起動時に1回読み込まれ、以降変更されない。可変状態を持たない。
//
// トークンには有効期限クレームを設定しない。失効はトークン自体ではなく、
// 認証ゲートがトリプルをデータストアと突き合わせることで実現する
// （EmailかUsernameが変わった時点で既存トークンは全て無効になる）。
type TokenService struct {
	secret []byte
}

// NewTokenService はTokenServiceを生成する。
// secretが空の場合はエラーを返す（起動時の設定不備として扱う）。
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue はクレームを署名してトークン文字列を返す。
// UserIDが空のクレームは受け付けない。
func (s *TokenService) Issue(claims model.TokenClaims) (string, error) {
	if claims.UserID == "" {
		return "", ErrNilClaims
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と形式を検証し、クレームを返す。
// 署名不一致・形式不正の場合はErrInvalidTokenを返す。
// 有効期限は発行時に設定していないため検証しない。
// アルゴリズムはHS256に固定する（algすり替え対策）。
func (s *TokenService) Verify(tokenStr string) (model.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || c.UserID == "" {
		return model.TokenClaims{}, ErrInvalidToken
	}

	return model.TokenClaims{
		UserID:   c.UserID,
		Email:    c.Email,
		Username: c.Username,
	}, nil
}
