package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	for _, s := range []string{"admin", "minter", "transfer", "asset"} {
		r, err := NewRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := NewRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestZeroAccount(t *testing.T) {
	assert.Equal(t, "0x0000000000000000000000000000000000000000", ZeroAccount)
}

func TestIdentityResolver_Resolve(t *testing.T) {
	resolver := NewIdentityResolver([]string{"relayer", ""})

	tests := []struct {
		name            string
		inv             Invocation
		wantAccount     string
		wantOriginating bool
	}{
		{
			name:            "正常系: 直接呼び出し",
			inv:             Invocation{Sender: "alice", Origin: "alice"},
			wantAccount:     "alice",
			wantOriginating: true,
		},
		{
			name:            "正常系: Origin省略時はSenderを発生源とみなす",
			inv:             Invocation{Sender: "alice"},
			wantAccount:     "alice",
			wantOriginating: true,
		},
		{
			name:            "正常系: 信頼済み中継者経由",
			inv:             Invocation{Sender: "relayer", Origin: "relayer", ForwardedFor: "alice"},
			wantAccount:     "alice",
			wantOriginating: true,
		},
		{
			name:            "異常系: 信頼されていない中継者の代理指定は無視",
			inv:             Invocation{Sender: "bot", Origin: "bot", ForwardedFor: "alice"},
			wantAccount:     "bot",
			wantOriginating: true,
		},
		{
			name:            "異常系: ラッパーアカウント経由の呼び出し",
			inv:             Invocation{Sender: "wrapper-contract", Origin: "alice"},
			wantAccount:     "wrapper-contract",
			wantOriginating: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := resolver.Resolve(tt.inv)
			assert.Equal(t, tt.wantAccount, caller.Account)
			assert.Equal(t, tt.wantOriginating, caller.IsOriginating())
		})
	}

	assert.False(t, resolver.IsTrustedForwarder(""))
}
