package service

import (
	"fmt"
	"math/big"

	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/errkind"
)

var (
	// ErrSamplerTargetOutOfRange 抽選対象が在庫内に見つからない
	ErrSamplerTargetOutOfRange = fmt.Errorf("%w: sampler target out of range", errkind.ErrInternalInvariant)
	// ErrEmptyPool 在庫が無いのに抽選しようとした
	ErrEmptyPool = fmt.Errorf("%w: reward pool is empty", errkind.ErrInternalInvariant)
)

// RewardSampler 重み付き非復元抽出で報酬を取り出すドメインサービス
type RewardSampler struct {
	recomputePool bool
}

// NewRewardSampler 新しいRewardSamplerを作成
// recomputePool が false の場合、母数は呼び出し開始時の在庫数で固定される
func NewRewardSampler(recomputePool bool) *RewardSampler {
	return &RewardSampler{recomputePool: recomputePool}
}

// Draw drawCount 単位を抽選し、contents の在庫を減らす
func (s *RewardSampler) Draw(src DrawSource, drawCount int64, contents []*asset.RewardEntry) ([]asset.RewardUnit, error) {
	if drawCount <= 0 {
		return nil, nil
	}

	poolSize := remainingUnits(contents)
	units := make([]asset.RewardUnit, 0, drawCount)

	for i := int64(0); i < drawCount; i++ {
		if s.recomputePool && i > 0 {
			poolSize = remainingUnits(contents)
		}
		if poolSize <= 0 {
			return nil, fmt.Errorf("%w: draw %d", ErrEmptyPool, i)
		}

		target := new(big.Int).Mod(src.Value(i), big.NewInt(poolSize)).Int64()

		entry := locate(contents, target)
		if entry == nil {
			return nil, fmt.Errorf("%w: draw %d target %d pool %d", ErrSamplerTargetOutOfRange, i, target, poolSize)
		}

		unit, err := entry.TakeUnit()
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, nil
}

// locate 累積在庫数が target を超える最初のエントリを返す
func locate(contents []*asset.RewardEntry, target int64) *asset.RewardEntry {
	var step int64
	for _, e := range contents {
		n := e.RewardUnits()
		if target < step+n {
			return e
		}
		step += n
	}
	return nil
}

func remainingUnits(contents []*asset.RewardEntry) int64 {
	var total int64
	for _, e := range contents {
		total += e.RewardUnits()
	}
	return total
}
