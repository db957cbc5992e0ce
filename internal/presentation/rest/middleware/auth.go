package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/infrastructure/config"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

const (
	// HeaderForwardedAccount 信頼済み中継者が代理対象アカウントを指定するヘッダー
	HeaderForwardedAccount = "X-Forwarded-Account"

	contextKeyAccount    = "account"
	contextKeyInvocation = "invocation"
)

// AuthMiddleware JWT認証ミドルウェア
// user_id クレームを呼び出しの発生源とし、sender クレームがあれば直接の呼び出し元とする
func AuthMiddleware(cfg *config.JWTConfig, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				logger.Warn(ctx, "Missing authorization header", nil)
				return unauthorized(c, "Missing authorization header")
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				logger.Warn(ctx, "Invalid authorization header format", nil)
				return unauthorized(c, "Invalid authorization header format")
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.Secret), nil
			}, jwt.WithIssuer(cfg.Issuer))
			if err != nil || !token.Valid {
				fields := map[string]interface{}{}
				if err != nil {
					fields["error"] = err.Error()
				}
				logger.Warn(ctx, "Invalid token", fields)
				return unauthorized(c, "Invalid or expired token")
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				logger.Warn(ctx, "Missing user_id in token claims", nil)
				return unauthorized(c, "Missing user_id in token")
			}

			sender, _ := claims["sender"].(string)
			if sender == "" {
				sender = userID
			}

			inv := access.Invocation{
				Sender:       sender,
				Origin:       userID,
				ForwardedFor: c.Request().Header.Get(HeaderForwardedAccount),
			}
			c.Set(contextKeyAccount, sender)
			c.Set(contextKeyInvocation, inv)

			return next(c)
		}
	}
}

// InvocationFrom 認証済みリクエストの呼び出し情報を取得
func InvocationFrom(c echo.Context) (access.Invocation, bool) {
	inv, ok := c.Get(contextKeyInvocation).(access.Invocation)
	return inv, ok && inv.Sender != ""
}

// SetInvocation 呼び出し情報をコンテキストに設定（ハンドラーのテスト用）
func SetInvocation(c echo.Context, inv access.Invocation) {
	c.Set(contextKeyAccount, inv.Sender)
	c.Set(contextKeyInvocation, inv)
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
