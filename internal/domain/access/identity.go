package access

// Invocation 呼び出しの生情報
type Invocation struct {
	// Sender 直接の呼び出し元（中継サービスの場合は中継者）
	Sender string
	// Origin 呼び出しを発生させた主体
	Origin string
	// ForwardedFor 信頼済み中継者が付与した代理対象アカウント
	ForwardedFor string
}

// Caller 解決済みの呼び出し主体
type Caller struct {
	// Account 実際に行動している主体。以降の処理は全てこの値を使う
	Account string
	// Origin 呼び出しを発生させた主体
	Origin string
	// ViaTrustedForwarder 信頼済み中継者経由か
	ViaTrustedForwarder bool
}

// IsOriginating 主体が呼び出しの発生源か（中継ラッパーによるなりすましではないか）
func (c Caller) IsOriginating() bool {
	return c.ViaTrustedForwarder || c.Account == c.Origin
}

// IdentityResolver 信頼済み中継者を考慮して呼び出し主体を解決する
type IdentityResolver struct {
	trustedForwarders map[string]struct{}
}

// NewIdentityResolver 新しいIdentityResolverを作成
func NewIdentityResolver(trustedForwarders []string) *IdentityResolver {
	m := make(map[string]struct{}, len(trustedForwarders))
	for _, f := range trustedForwarders {
		if f != "" {
			m[f] = struct{}{}
		}
	}
	return &IdentityResolver{trustedForwarders: m}
}

// IsTrustedForwarder 信頼済み中継者かどうか
func (r *IdentityResolver) IsTrustedForwarder(account string) bool {
	_, ok := r.trustedForwarders[account]
	return ok
}

// Resolve 呼び出し主体を解決
func (r *IdentityResolver) Resolve(inv Invocation) Caller {
	origin := inv.Origin
	if origin == "" {
		origin = inv.Sender
	}
	if r.IsTrustedForwarder(inv.Sender) && inv.ForwardedFor != "" {
		return Caller{
			Account:             inv.ForwardedFor,
			Origin:              origin,
			ViaTrustedForwarder: true,
		}
	}
	return Caller{
		Account: inv.Sender,
		Origin:  origin,
	}
}
