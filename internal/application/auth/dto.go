package auth

// IssueTokenRequest トークン発行リクエスト
type IssueTokenRequest struct {
	// Account トークンの主体（呼び出しの発生源）
	Account string
	// Sender 直接の呼び出し元。空の場合は Account と同じ
	Sender string
}

// IssueTokenResponse トークン発行レスポンス
type IssueTokenResponse struct {
	Token     string
	Account   string
	Sender    string
	ExpiresIn int64  // 秒単位
	TokenType string // "Bearer"
}
