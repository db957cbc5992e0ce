package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// BlockEntropy 直近ブロックから得られるエントロピー
type BlockEntropy struct {
	Number uint64
	Hash   common.Hash
	// Beacon difficultyまたはprevRandaoの値
	Beacon *big.Int
}

// BlockBeacon 直近ブロックのエントロピーを提供する
type BlockBeacon interface {
	Latest(ctx context.Context) (BlockEntropy, error)
}

// DrawSource 抽選ごとの疑似乱数値を提供する
type DrawSource interface {
	Value(i int64) *big.Int
}

// SeedFromBlock 開封者とブロックのエントロピーからシードを導出
// 確定前に観測できる値のみから作られるため、誰でも結果を事前に計算できる
func SeedFromBlock(opener string, e BlockEntropy) common.Hash {
	beacon := new(big.Int)
	if e.Beacon != nil {
		beacon.Set(e.Beacon)
	}
	return crypto.Keccak256Hash([]byte(opener), e.Hash.Bytes(), math.U256Bytes(beacon))
}

// KeccakDrawSource keccak256(seed ‖ uint256(i)) を返すDrawSource
type KeccakDrawSource struct {
	seed common.Hash
}

// NewKeccakDrawSource 新しいKeccakDrawSourceを作成
func NewKeccakDrawSource(seed common.Hash) *KeccakDrawSource {
	return &KeccakDrawSource{seed: seed}
}

// Value i番目の抽選値を返す
func (s *KeccakDrawSource) Value(i int64) *big.Int {
	h := crypto.Keccak256(s.seed.Bytes(), math.U256Bytes(big.NewInt(i)))
	return new(big.Int).SetBytes(h)
}
