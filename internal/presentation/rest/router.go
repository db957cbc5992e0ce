package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	adminapp "pack-vault/internal/application/admin"
	authapp "pack-vault/internal/application/auth"
	packapp "pack-vault/internal/application/pack"
	"pack-vault/internal/infrastructure/config"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
	"pack-vault/internal/presentation/rest/handler"
	restmiddleware "pack-vault/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo         *echo.Echo
	packHandler  *handler.PackHandler
	adminHandler *handler.AdminHandler
	authHandler  *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	packService *packapp.PackApplicationService,
	adminService *adminapp.AdminApplicationService,
	authService *authapp.AuthApplicationService,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	setupMiddleware(e, logger, metrics)

	packHandler := handler.NewPackHandler(packService)
	adminHandler := handler.NewAdminHandler(adminService)
	authHandler := handler.NewAuthHandler(authService)

	setupRoutes(e, cfg, logger, packHandler, adminHandler, authHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:         e,
		packHandler:  packHandler,
		adminHandler: adminHandler,
		authHandler:  authHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			restmiddleware.HeaderAPIKey,
			restmiddleware.HeaderForwardedAccount,
		},
	}))

	e.Use(middleware.RequestID())
	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(restmiddleware.TracingMiddleware())
	if metrics != nil {
		e.Use(restmiddleware.MetricsMiddleware(metrics))
	}
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// 最内側でエラーをレスポンスに変換し、外側のミドルウェアがステータスを観測できるようにする
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	packHandler *handler.PackHandler,
	adminHandler *handler.AdminHandler,
	authHandler *handler.AuthHandler,
) {
	api := e.Group("/api/v1")

	// 参照系（認証不要）
	api.GET("/packs/:pack_id", packHandler.GetPack)
	api.GET("/packs/:pack_id/contents", packHandler.GetPackContents)
	api.GET("/packs/:pack_id/supply", packHandler.GetTotalSupply)
	api.GET("/packs/:pack_id/events", packHandler.ListEvents)

	// 認証が必要なエンドポイント
	authGroup := api.Group("", restmiddleware.AuthMiddleware(&cfg.JWT, logger))
	authGroup.POST("/packs", packHandler.CreatePack)
	authGroup.GET("/packs/:pack_id/balance", packHandler.GetShareBalance)
	authGroup.POST("/packs/:pack_id/open", packHandler.OpenPack)
	authGroup.POST("/packs/:pack_id/transfer", packHandler.TransferShares)

	// 管理API（APIキー認証）
	if cfg.AdminAPI.Enabled {
		admin := api.Group("/admin", restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger))
		admin.POST("/tokens", authHandler.IssueToken)
		admin.POST("/roles/grant", adminHandler.GrantRole)
		admin.POST("/roles/revoke", adminHandler.RevokeRole)
		admin.GET("/roles/:role/:account", adminHandler.HasRole)
		admin.GET("/pause", adminHandler.GetPauseState)
		admin.POST("/pause", adminHandler.Pause)
		admin.POST("/unpause", adminHandler.Unpause)
		admin.PUT("/packs/:pack_id/uri", adminHandler.SetPackURI)
		admin.POST("/assets/mint", adminHandler.MintAsset)
		admin.GET("/assets/:source/balance", adminHandler.GetAssetBalance)
		admin.PUT("/accounts/:account/native-rejecting", adminHandler.SetNativeRejecting)
	}

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler テストや組み込み用にhttp.Handlerとして返す
func (r *Router) Handler() http.Handler {
	return r.echo
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
