package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pack-vault/internal/domain/errkind"
)

// handleError アプリケーションエラーをgRPCステータスに変換
func handleError(err error) error {
	if err == nil {
		return nil
	}

	// 転送失敗は原因より優先して判定する
	switch {
	case errors.Is(err, errkind.ErrTransferFailed):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, errkind.ErrInternalInvariant):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, errkind.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errkind.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errkind.ErrAuthorization):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, errkind.ErrState):
		return status.Error(codes.FailedPrecondition, err.Error())
	}

	// gRPCステータスエラーの場合はそのまま返す
	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codes.Internal, "internal server error")
}
