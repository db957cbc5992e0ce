package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackHandler_CreatePack(t *testing.T) {
	tests := []struct {
		name           string
		account        string
		mutate         func(b *CreatePackRequest)
		expectedStatus int
	}{
		{
			name:           "正常系: パック作成成功",
			account:        "creator",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "異常系: 未認証",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: 数量の形式が不正",
			account:        "creator",
			mutate:         func(b *CreatePackRequest) { b.Contents[0].TotalAmount = "abc" },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 内容が空",
			account:        "creator",
			mutate:         func(b *CreatePackRequest) { b.Contents = nil },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 作成ロールなし",
			account:        "alice",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: 作成者の残高不足",
			account:        "creator",
			mutate:         func(b *CreatePackRequest) { b.Contents[0].TotalAmount = "1000" },
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			body := scenarioBody()
			if tt.mutate != nil {
				tt.mutate(&body)
			}

			rec := env.do(t, env.pack.CreatePack, http.MethodPost, "/api/v1/packs", nil, body, tt.account)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var resp CreatePackResponse
				decode(t, rec, &resp)
				assert.Equal(t, int64(1), resp.PackID)
				assert.Equal(t, "11", resp.TotalSupply)
				assert.Equal(t, "creator", resp.Recipient)
			}
		})
	}
}

func TestPackHandler_OpenPack(t *testing.T) {
	tests := []struct {
		name           string
		packID         string
		shares         string
		account        string
		expectedStatus int
		expectedUnits  int
	}{
		{
			name:           "正常系: 1シェアを開封",
			packID:         "1",
			shares:         "1",
			account:        "creator",
			expectedStatus: http.StatusOK,
			expectedUnits:  1,
		},
		{
			name:           "異常系: シェア不足",
			packID:         "1",
			shares:         "12",
			account:        "creator",
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "異常系: シェア数0",
			packID:         "1",
			shares:         "0",
			account:        "creator",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: パックが存在しない",
			packID:         "9",
			shares:         "1",
			account:        "creator",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "異常系: パックIDが不正",
			packID:         "abc",
			shares:         "1",
			account:        "creator",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.createScenarioPack(t)

			rec := env.do(t, env.pack.OpenPack, http.MethodPost, "/api/v1/packs/"+tt.packID+"/open",
				map[string]string{"pack_id": tt.packID}, OpenPackRequest{Shares: tt.shares}, tt.account)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var resp OpenPackResponse
				decode(t, rec, &resp)
				assert.Equal(t, "creator", resp.Opener)
				assert.Len(t, resp.Units, tt.expectedUnits)
				assert.NotEmpty(t, resp.Seed)
			}
		})
	}
}

func TestPackHandler_OpenPack_OneShareAtATime(t *testing.T) {
	env := newTestEnv(t)
	env.createScenarioPack(t)
	params := map[string]string{"pack_id": "1"}

	var gold int64
	var heroes int
	for i := 0; i < 11; i++ {
		rec := env.do(t, env.pack.OpenPack, http.MethodPost, "/api/v1/packs/1/open", params, OpenPackRequest{Shares: "1"}, "creator")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp OpenPackResponse
		decode(t, rec, &resp)
		require.Len(t, resp.Units, 1)
		switch resp.Units[0].Source {
		case "gold":
			assert.Equal(t, "10", resp.Units[0].Amount)
			gold += 10
		case "heroes":
			heroes++
		}
	}
	assert.Equal(t, int64(100), gold)
	assert.Equal(t, 1, heroes)

	rec := env.do(t, env.pack.GetTotalSupply, http.MethodGet, "/api/v1/packs/1/supply", params, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var supply SupplyResponse
	decode(t, rec, &supply)
	assert.Equal(t, "0", supply.TotalSupply)

	rec = env.do(t, env.pack.OpenPack, http.MethodPost, "/api/v1/packs/1/open", params, OpenPackRequest{Shares: "1"}, "creator")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPackHandler_Reads(t *testing.T) {
	env := newTestEnv(t)
	env.createScenarioPack(t)
	params := map[string]string{"pack_id": "1"}

	rec := env.do(t, env.pack.GetPack, http.MethodGet, "/api/v1/packs/1", params, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p PackResponse
	decode(t, rec, &p)
	assert.Equal(t, "ipfs://pack/1", p.URI)
	assert.Equal(t, "11", p.TotalSupply)
	assert.Equal(t, "11", p.RemainingUnits)
	assert.Len(t, p.Contents, 2)

	rec = env.do(t, env.pack.GetPackContents, http.MethodGet, "/api/v1/packs/1/contents", params, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var contents PackContentsResponse
	decode(t, rec, &contents)
	require.Len(t, contents.Contents, 2)
	assert.Equal(t, "10", contents.Contents[0].RewardUnits)

	rec = env.do(t, env.pack.GetTotalSupply, http.MethodGet, "/api/v1/packs/1/supply", params, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var supply SupplyResponse
	decode(t, rec, &supply)
	assert.Equal(t, "11", supply.TotalSupply)

	rec = env.do(t, env.pack.GetShareBalance, http.MethodGet, "/api/v1/packs/1/balance", params, nil, "creator")
	require.Equal(t, http.StatusOK, rec.Code)
	var balance ShareBalanceResponse
	decode(t, rec, &balance)
	assert.Equal(t, "creator", balance.Holder)
	assert.Equal(t, "11", balance.Balance)

	rec = env.do(t, env.pack.GetShareBalance, http.MethodGet, "/api/v1/packs/1/balance", params, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, env.pack.GetPack, http.MethodGet, "/api/v1/packs/2", map[string]string{"pack_id": "2"}, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, env.pack.GetTotalSupply, http.MethodGet, "/api/v1/packs/2/supply", map[string]string{"pack_id": "2"}, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &supply)
	assert.Equal(t, "0", supply.TotalSupply)
}

func TestPackHandler_TransferSharesAndEvents(t *testing.T) {
	env := newTestEnv(t)
	env.createScenarioPack(t)
	params := map[string]string{"pack_id": "1"}

	rec := env.do(t, env.pack.TransferShares, http.MethodPost, "/api/v1/packs/1/transfer", params,
		TransferSharesRequest{To: "alice", Amount: "3"}, "creator")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var transfer TransferSharesResponse
	decode(t, rec, &transfer)
	assert.Equal(t, "8", transfer.Balance)

	rec = env.do(t, env.pack.TransferShares, http.MethodPost, "/api/v1/packs/1/transfer", params,
		TransferSharesRequest{To: "alice", Amount: "x"}, "creator")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, env.pack.ListEvents, http.MethodGet, "/api/v1/packs/1/events", params, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var events EventsResponse
	decode(t, rec, &events)
	require.Len(t, events.Events, 2)
	assert.Equal(t, "pack_created", events.Events[0].Type)
	assert.Equal(t, "shares_transferred", events.Events[1].Type)
	assert.Equal(t, "3", events.Events[1].Shares)
	assert.Equal(t, 20, events.Limit)
}
