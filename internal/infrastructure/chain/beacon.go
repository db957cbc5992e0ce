package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/service"
)

type headerReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// EthBeacon RPCノードの最新ブロックヘッダーからエントロピーを得る
type EthBeacon struct {
	client  headerReader
	timeout time.Duration
	tracer  trace.Tracer
}

// NewEthBeacon 新しいEthBeaconを作成
func NewEthBeacon(client headerReader, timeout time.Duration) *EthBeacon {
	return &EthBeacon{
		client:  client,
		timeout: timeout,
		tracer:  otel.Tracer("eth-beacon"),
	}
}

// DialEthBeacon RPCノードに接続してEthBeaconを作成
func DialEthBeacon(ctx context.Context, rpcURL string, timeout time.Duration) (*EthBeacon, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial chain rpc: %w", err)
	}
	return NewEthBeacon(client, timeout), client.Close, nil
}

// Latest 最新ブロックのハッシュとビーコン値を返す
// マージ後のブロックはdifficultyが0のため、mixDigest（prevRandao）を使う
func (b *EthBeacon) Latest(ctx context.Context) (service.BlockEntropy, error) {
	ctx, span := b.tracer.Start(ctx, "EthBeacon.Latest")
	defer span.End()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	header, err := b.client.HeaderByNumber(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return service.BlockEntropy{}, fmt.Errorf("failed to fetch latest header: %w", err)
	}

	beacon := new(big.Int)
	if header.Difficulty != nil && header.Difficulty.Sign() > 0 {
		beacon.Set(header.Difficulty)
	} else {
		beacon.SetBytes(header.MixDigest.Bytes())
	}

	e := service.BlockEntropy{
		Number: header.Number.Uint64(),
		Hash:   header.Hash(),
		Beacon: beacon,
	}
	span.SetAttributes(
		attribute.Int64("block.number", int64(e.Number)),
		attribute.String("block.hash", e.Hash.Hex()),
	)
	span.SetStatus(otelcodes.Ok, "latest block")
	return e, nil
}

// LocalBeacon チェーンに接続しない環境向けのブロック生成器
// 呼び出しごとに1ブロック進め、直前のハッシュと時刻から次のハッシュを決める
type LocalBeacon struct {
	mu     sync.Mutex
	number uint64
	hash   common.Hash
	now    func() time.Time
}

// NewLocalBeacon 新しいLocalBeaconを作成
func NewLocalBeacon(genesis common.Hash, now func() time.Time) *LocalBeacon {
	if now == nil {
		now = time.Now
	}
	return &LocalBeacon{hash: genesis, now: now}
}

// Latest 次のブロックを生成して返す
func (b *LocalBeacon) Latest(ctx context.Context) (service.BlockEntropy, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.number++
	number := new(big.Int).SetUint64(b.number)
	timestamp := big.NewInt(b.now().Unix())
	b.hash = crypto.Keccak256Hash(b.hash.Bytes(), math.U256Bytes(number), math.U256Bytes(timestamp))

	return service.BlockEntropy{
		Number: b.number,
		Hash:   b.hash,
		Beacon: new(big.Int).SetBytes(crypto.Keccak256(b.hash.Bytes())),
	}, nil
}
