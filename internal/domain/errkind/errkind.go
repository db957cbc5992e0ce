// Package errkind ドメインエラーの分類
//
// 各ドメインパッケージのセンチネルエラーはここで定義した分類のいずれか一つをラップする。
// プレゼンテーション層は errors.Is で分類を判定し、HTTP/gRPCのステータスへ変換する。
package errkind

import "errors"

var (
	// ErrValidation 入力値の検証エラー
	ErrValidation = errors.New("validation error")
	// ErrAuthorization 権限エラー
	ErrAuthorization = errors.New("authorization error")
	// ErrState 状態エラー（開封前、残高不足、一時停止中など）
	ErrState = errors.New("state error")
	// ErrNotFound 対象が存在しないエラー
	ErrNotFound = errors.New("not found")
	// ErrTransferFailed 資産移動の失敗
	ErrTransferFailed = errors.New("transfer failed")
	// ErrInternalInvariant 内部不変条件違反（発生してはならない）
	ErrInternalInvariant = errors.New("internal invariant violation")
)

// Kind エラーの分類名を返す
// 転送失敗と不変条件違反は原因となったエラーをラップするため、先に判定する
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransferFailed):
		return "transfer_failure"
	case errors.Is(err, ErrInternalInvariant):
		return "internal_invariant_violation"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrAuthorization):
		return "authorization_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrState):
		return "state_error"
	default:
		return "unknown"
	}
}
