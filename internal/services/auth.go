package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/ctxutil"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the identity-provider claims the service relies on. Subject is
// the provider's stable user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies the token, mirrors the caller into the
	// local user table and attaches ctxutil.RequestData.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, *types.User, error)
}

type authService struct {
	log       *logger.Logger
	users     repos.UserRepo
	secretKey []byte
}

func NewAuthService(log *logger.Logger, users repos.UserRepo, jwtSecretKey string) AuthService {
	return &authService{
		log:       log.With("service", "AuthService"),
		users:     users,
		secretKey: []byte(jwtSecretKey),
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, *types.User, error) {
	if strings.TrimSpace(tokenString) == "" || len(as.secretKey) == 0 {
		return ctx, nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return as.secretKey, nil
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ctx, nil, ErrInvalidToken
	}
	user, err := as.users.GetOrCreateByExternalUID(ctx, nil, claims.Subject, claims.Email, claims.Name)
	if err != nil {
		return ctx, nil, fmt.Errorf("load user: %w", err)
	}
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      user.ID,
		ExternalUID: user.ExternalUID,
		Role:        string(user.Role),
	})
	return ctx, user, nil
}

// SignToken issues an HS256 token for subject. Used by tests and local tooling.
func SignToken(secretKey, subject, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}
