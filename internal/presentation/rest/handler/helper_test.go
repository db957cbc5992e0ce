package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	adminapp "pack-vault/internal/application/admin"
	packapp "pack-vault/internal/application/pack"
	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/service"
	"pack-vault/internal/infrastructure/cache"
	"pack-vault/internal/infrastructure/chain"
	"pack-vault/internal/infrastructure/lock"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
	"pack-vault/internal/infrastructure/persistence/memory"
	restmiddleware "pack-vault/internal/presentation/rest/middleware"
)

// testEnv メモリストア上に組み立てたハンドラー一式
type testEnv struct {
	e      *echo.Echo
	pack   *PackHandler
	admin  *AdminHandler
	ledger *memory.AssetLedger
	roles  *memory.RoleRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	ledger := memory.NewAssetLedger(store)
	roles := memory.NewRoleRepository(store)
	pause := memory.NewPauseState(store)
	packRepo := memory.NewPackRepository(store)
	logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	now := func() time.Time { return time.Unix(2_000, 0) }
	packService := packapp.NewPackApplicationService(packapp.Dependencies{
		PackRepo:  packRepo,
		Metadata:  packRepo,
		EventRepo: memory.NewEventRepository(store),
		Roles:     roles,
		Pause:     pause,
		Identity:  access.NewIdentityResolver([]string{"relayer"}),
		TxManager: store,
		Guard:     lock.NewLocalGuard(),
		Transfers: service.NewAssetTransferService(ledger, "vault", asset.NativeCurrency{
			Source:        "native",
			WrappedSource: "wnative",
			Reserve:       "wnative-reserve",
		}),
		Receipts: service.NewReceiptAccountingService(memory.NewShareRepository(store)),
		// 複数単位の開封が抽選値に左右されないよう母数を毎回数え直す
		Sampler:  service.NewRewardSampler(true),
		Beacon:   chain.NewLocalBeacon(common.HexToHash("0x01"), now),
		Cache:    cache.NewContentsCache(time.Minute),
		Logger:   logger,
		Metrics:  metrics,
		Now:      now,
	})
	adminService := adminapp.NewAdminApplicationService(roles, pause, packRepo, packRepo, ledger, store, logger)

	e := echo.New()

	ctx := context.Background()
	require.NoError(t, roles.Grant(ctx, access.RoleMinter, "creator"))
	require.NoError(t, roles.Grant(ctx, access.RoleAsset, access.ZeroAccount))
	require.NoError(t, roles.Grant(ctx, access.RoleTransfer, access.ZeroAccount))
	require.NoError(t, ledger.MintFungible(ctx, "gold", "creator", 100))
	require.NoError(t, ledger.MintUnique(ctx, "heroes", "creator", "42"))

	return &testEnv{
		e:      e,
		pack:   NewPackHandler(packService),
		admin:  NewAdminHandler(adminService),
		ledger: ledger,
		roles:  roles,
	}
}

// do ハンドラーを呼び出し、エラーハンドリングミドルウェアを通したレスポンスを返す
// account が空でなければ認証済みとして扱う
func (env *testEnv) do(t *testing.T, h echo.HandlerFunc, method, path string, params map[string]string, body interface{}, account string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for name, value := range params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if account != "" {
		restmiddleware.SetInvocation(c, access.Invocation{Sender: account, Origin: account})
	}

	handlerFunc := restmiddleware.ErrorHandlerMiddleware(otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test")))(h)
	if err := handlerFunc(c); err != nil {
		env.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func scenarioBody() CreatePackRequest {
	return CreatePackRequest{
		Contents: []ContentInputModel{
			{Source: "gold", Kind: "fungible_currency", TotalAmount: "100", PerUnitAmount: "10"},
			{Source: "heroes", Kind: "unique_item", ItemID: "42", TotalAmount: "1", PerUnitAmount: "1"},
		},
		URI:                "ipfs://pack/1",
		OpenEligibleAt:     1_000,
		RewardUnitsPerOpen: "1",
		Recipient:          "creator",
	}
}

func (env *testEnv) createScenarioPack(t *testing.T) {
	t.Helper()
	rec := env.do(t, env.pack.CreatePack, http.MethodPost, "/api/v1/packs", nil, scenarioBody(), "creator")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
