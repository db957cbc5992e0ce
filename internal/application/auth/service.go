package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/infrastructure/config"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// AuthApplicationService アカウント向けのアクセストークンを発行する
type AuthApplicationService struct {
	jwtConfig *config.JWTConfig
	logger    *otelinfra.Logger
	now       func() time.Time
}

// NewAuthApplicationService 新しいAuthApplicationServiceを作成
func NewAuthApplicationService(jwtConfig *config.JWTConfig, logger *otelinfra.Logger) *AuthApplicationService {
	return &AuthApplicationService{
		jwtConfig: jwtConfig,
		logger:    logger,
		now:       time.Now,
	}
}

// IssueToken JWTトークンを発行
// Sender が Account と異なるトークンはラッパー経由の呼び出しとして扱われる
func (s *AuthApplicationService) IssueToken(ctx context.Context, req *IssueTokenRequest) (*IssueTokenResponse, error) {
	tracer := otel.Tracer("auth-service")
	ctx, span := tracer.Start(ctx, "AuthApplicationService.IssueToken")
	defer span.End()

	span.SetAttributes(
		attribute.String("account", req.Account),
		attribute.String("sender", req.Sender),
	)

	if req.Account == "" {
		err := fmt.Errorf("%w: account is required", access.ErrInvalidAccount)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn(ctx, "Account is required", nil)
		return nil, err
	}

	sender := req.Sender
	if sender == "" {
		sender = req.Account
	}

	now := s.now()
	expiresAt := now.Add(s.jwtConfig.Expiration)

	claims := jwt.MapClaims{
		"user_id": req.Account,
		"iss":     s.jwtConfig.Issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	if sender != req.Account {
		claims["sender"] = sender
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "Failed to sign token", err, map[string]interface{}{
			"account": req.Account,
		})
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info(ctx, "Token issued", map[string]interface{}{
		"account":    req.Account,
		"sender":     sender,
		"expires_at": expiresAt.Unix(),
	})

	return &IssueTokenResponse{
		Token:     tokenString,
		Account:   req.Account,
		Sender:    sender,
		ExpiresIn: int64(s.jwtConfig.Expiration.Seconds()),
		TokenType: "Bearer",
	}, nil
}
