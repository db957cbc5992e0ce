package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pack-vault/internal/domain/asset"
)

func scenarioContents() []*asset.RewardEntry {
	return []*asset.RewardEntry{
		asset.MustNewRewardEntry("gold", asset.UnitKindFungibleCurrency, "", 100, 10),
		asset.MustNewRewardEntry("heroes", asset.UnitKindUniqueItem, "1", 1, 1),
	}
}

func TestNewPack(t *testing.T) {
	tests := []struct {
		name       string
		contents   []*asset.RewardEntry
		perOpen    int64
		uri        string
		wantSupply int64
		wantError  error
	}{
		{
			name:       "正常系: 1開封1単位",
			contents:   scenarioContents(),
			perOpen:    1,
			uri:        "ipfs://pack/1",
			wantSupply: 11,
		},
		{
			name: "正常系: 1開封2単位",
			contents: []*asset.RewardEntry{
				asset.MustNewRewardEntry("gold", asset.UnitKindFungibleCurrency, "", 100, 10),
			},
			perOpen:    2,
			wantSupply: 5,
		},
		{
			name:      "異常系: 内容が空",
			contents:  nil,
			perOpen:   1,
			wantError: ErrNothingToPack,
		},
		{
			name:      "異常系: 1開封あたり0単位",
			contents:  scenarioContents(),
			perOpen:   0,
			wantError: ErrInvalidRewardUnitsPerOpen,
		},
		{
			name:      "異常系: 総単位数が割り切れない",
			contents:  scenarioContents(),
			perOpen:   2,
			wantError: ErrInvalidRewardUnitsPerOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPack(1, tt.uri, 100, tt.perOpen, tt.contents, "creator")
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSupply, p.ShareSupply())
			assert.Equal(t, tt.wantSupply*tt.perOpen, p.TotalRewardUnits())
			assert.Equal(t, tt.uri, p.URI())
		})
	}
}

func TestPack_CheckOpenable(t *testing.T) {
	p, err := NewPack(1, "", 1000, 1, scenarioContents(), "creator")
	require.NoError(t, err)

	tests := []struct {
		name      string
		now       int64
		wantError error
	}{
		{
			name:      "異常系: 開封可能時刻より前",
			now:       999,
			wantError: ErrPackNotYetOpenable,
		},
		{
			name:      "異常系: 開封可能時刻ちょうど",
			now:       1000,
			wantError: ErrPackNotYetOpenable,
		},
		{
			name: "正常系: 開封可能時刻より後",
			now:  1001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckOpenable(tt.now)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPack_Clone(t *testing.T) {
	p, err := NewPack(1, "", 0, 1, scenarioContents(), "creator")
	require.NoError(t, err)

	clone := p.Clone()
	_, err = clone.Contents()[0].TakeUnit()
	require.NoError(t, err)

	assert.Equal(t, int64(11), p.TotalRewardUnits())
	assert.Equal(t, int64(10), clone.TotalRewardUnits())
}

func TestNewEventType(t *testing.T) {
	got, err := NewEventType("pack_opened")
	require.NoError(t, err)
	assert.Equal(t, EventTypeOpened, got)

	_, err = NewEventType("pack_burned")
	assert.ErrorIs(t, err, ErrInvalidEventType)
}
