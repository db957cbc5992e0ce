package handler

// IssueTokenRequest トークン発行リクエスト
// @Description トークン発行リクエスト
type IssueTokenRequest struct {
	Account string `json:"account" example:"alice"`
	Sender  string `json:"sender,omitempty" example:"wrapper-contract"`
}

// IssueTokenResponse トークン発行レスポンス
// @Description トークン発行レスポンス
type IssueTokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoiYWxpY2UifQ.signature"`
	Account   string `json:"account" example:"alice"`
	Sender    string `json:"sender" example:"alice"`
	ExpiresIn int    `json:"expires_in" example:"86400"`
	TokenType string `json:"token_type" example:"Bearer"`
}
