package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 作成されたパック数
	PacksCreated metric.Int64Counter

	// 開封で焼却されたシェア数
	SharesBurned metric.Int64Counter

	// 抽選で払い出された報酬単位数
	RewardUnitsDrawn metric.Int64Counter

	// 再入ガードで拒否された呼び出し数
	ReentrancyRejected metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー数
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	packsCreated, err := meter.Int64Counter(
		"packs_created_total",
		metric.WithDescription("Total number of packs created"),
	)
	if err != nil {
		return nil, err
	}

	sharesBurned, err := meter.Int64Counter(
		"pack_shares_burned_total",
		metric.WithDescription("Total number of pack shares burned by opening"),
	)
	if err != nil {
		return nil, err
	}

	rewardUnitsDrawn, err := meter.Int64Counter(
		"reward_units_drawn_total",
		metric.WithDescription("Total number of reward units drawn"),
	)
	if err != nil {
		return nil, err
	}

	reentrancyRejected, err := meter.Int64Counter(
		"reentrancy_rejected_total",
		metric.WithDescription("Total number of calls rejected by the reentrancy guard"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PacksCreated:       packsCreated,
		SharesBurned:       sharesBurned,
		RewardUnitsDrawn:   rewardUnitsDrawn,
		ReentrancyRejected: reentrancyRejected,
		RequestCount:       requestCount,
		ResponseTime:       responseTime,
		ErrorCount:         errorCount,
	}, nil
}

// RecordPackCreated パック作成を記録
func (m *Metrics) RecordPackCreated(ctx context.Context, entryCount int) {
	m.PacksCreated.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Int("entry_count", entryCount),
		),
	)
}

// RecordPackOpened 開封で焼却されたシェア数を記録
func (m *Metrics) RecordPackOpened(ctx context.Context, packID int64, shares int64) {
	m.SharesBurned.Add(ctx, shares,
		metric.WithAttributes(
			attribute.Int64("pack_id", packID),
		),
	)
}

// RecordRewardUnit 払い出された報酬単位を記録
func (m *Metrics) RecordRewardUnit(ctx context.Context, unitKind, source string) {
	m.RewardUnitsDrawn.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("unit_kind", unitKind),
			attribute.String("source", source),
		),
	)
}

// RecordReentrancyRejected 再入ガードによる拒否を記録
func (m *Metrics) RecordReentrancyRejected(ctx context.Context, operation string) {
	m.ReentrancyRejected.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
