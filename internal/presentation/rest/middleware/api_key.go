package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"pack-vault/internal/infrastructure/config"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// HeaderAPIKey 管理APIのキーを渡すヘッダー
const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware 管理API用のAPIキー認証ミドルウェア
func APIKeyMiddleware(cfg *config.AdminAPIConfig, logger *otelinfra.Logger) echo.MiddlewareFunc {
	allowed := parseAllowedNetworks(cfg.AllowedIPs)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if !cfg.Enabled {
				logger.Warn(ctx, "Admin API is disabled", nil)
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Error:   "forbidden",
					Message: "Admin API is disabled",
				})
			}

			apiKey := c.Request().Header.Get(HeaderAPIKey)
			if apiKey == "" {
				logger.Warn(ctx, "Missing X-API-Key header", nil)
				return unauthorized(c, "Missing X-API-Key header")
			}
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.APIKey)) != 1 {
				logger.Warn(ctx, "Invalid API key", nil)
				return unauthorized(c, "Invalid API key")
			}

			if len(allowed) > 0 {
				clientIP := c.RealIP()
				if !ipAllowed(clientIP, allowed) {
					logger.Warn(ctx, "IP address not allowed", map[string]interface{}{
						"ip": clientIP,
					})
					return c.JSON(http.StatusForbidden, ErrorResponse{
						Error:   "forbidden",
						Message: "IP address not allowed",
					})
				}
			}

			c.Set(contextKeyAccount, "admin")
			return next(c)
		}
	}
}

// parseAllowedNetworks 許可リストをネットワークに変換（単一IPは/32または/128として扱う）
func parseAllowedNetworks(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 128
		if ip.To4() != nil {
			ip = ip.To4()
			bits = 32
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// ipAllowed IPアドレスが許可ネットワークに含まれるか
func ipAllowed(ip string, nets []*net.IPNet) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}
