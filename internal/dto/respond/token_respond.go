package respond

// TokenRespond 登录/注册成功后的令牌响应
// AccessToken 是后续所有受保护请求和管理端 WebSocket 升级的唯一凭证
// 使用位置:
//   - internal/apiclient/client.go: Login, RegisterAdmin
type TokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}
