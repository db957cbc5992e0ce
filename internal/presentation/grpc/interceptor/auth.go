package interceptor

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/infrastructure/config"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// MetadataForwardedAccount 信頼済み中継者が代理対象アカウントを指定するメタデータキー
const MetadataForwardedAccount = "x-forwarded-account"

type invocationKey struct{}

// WithInvocation 呼び出し情報をコンテキストに設定
func WithInvocation(ctx context.Context, inv access.Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// InvocationFromContext 認証済み呼び出しの情報を取得
func InvocationFromContext(ctx context.Context) (access.Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(access.Invocation)
	return inv, ok && inv.Sender != ""
}

// AuthInterceptor JWT認証インターセプター
// skip が true を返すメソッドは認証せずに通す
func AuthInterceptor(cfg *config.JWTConfig, logger *otelinfra.Logger, skip func(fullMethod string) bool) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if skip != nil && skip(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			logger.Warn(ctx, "Missing metadata", nil)
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			logger.Warn(ctx, "Missing authorization header", nil)
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		tokenString, ok := strings.CutPrefix(authHeaders[0], "Bearer ")
		if !ok || tokenString == "" {
			logger.Warn(ctx, "Invalid authorization header format", nil)
			return nil, status.Error(codes.Unauthenticated, "invalid authorization header format")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		}, jwt.WithIssuer(cfg.Issuer))
		if err != nil || !token.Valid {
			fields := map[string]interface{}{"method": info.FullMethod}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.Warn(ctx, "Invalid token", fields)
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			logger.Warn(ctx, "Missing user_id in token claims", nil)
			return nil, status.Error(codes.Unauthenticated, "missing user_id in token")
		}

		sender, _ := claims["sender"].(string)
		if sender == "" {
			sender = userID
		}

		inv := access.Invocation{
			Sender: sender,
			Origin: userID,
		}
		if forwarded := md.Get(MetadataForwardedAccount); len(forwarded) > 0 {
			inv.ForwardedFor = forwarded[0]
		}

		return handler(WithInvocation(ctx, inv), req)
	}
}
