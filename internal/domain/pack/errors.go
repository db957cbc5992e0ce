package pack

import (
	"fmt"

	"pack-vault/internal/domain/errkind"
)

var (
	// ErrNothingToPack 内容が空のパック
	ErrNothingToPack = fmt.Errorf("%w: nothing to pack", errkind.ErrValidation)
	// ErrInvalidRewardUnitsPerOpen 1開封あたりの報酬単位数が無効
	ErrInvalidRewardUnitsPerOpen = fmt.Errorf("%w: invalid reward units per open", errkind.ErrValidation)
	// ErrInvalidShareAmount 開封・転送するシェア数が無効
	ErrInvalidShareAmount = fmt.Errorf("%w: invalid share amount", errkind.ErrValidation)
	// ErrInvalidRecipient シェアの受取人が無効
	ErrInvalidRecipient = fmt.Errorf("%w: invalid recipient", errkind.ErrValidation)
	// ErrInvalidURI URIが長すぎる
	ErrInvalidURI = fmt.Errorf("%w: invalid pack uri", errkind.ErrValidation)
	// ErrPackNotFound パックが見つからない
	ErrPackNotFound = fmt.Errorf("%w: pack not found", errkind.ErrNotFound)
	// ErrPackNotYetOpenable 開封可能時刻前
	ErrPackNotYetOpenable = fmt.Errorf("%w: pack not yet openable", errkind.ErrState)
	// ErrInvalidEventType イベント種別が無効
	ErrInvalidEventType = fmt.Errorf("%w: invalid event type", errkind.ErrValidation)
)
