package respond

// AdminInfoRespond 管理员身份信息
// 仅用于界面显示；获取失败被视为令牌失效，触发登出
// 使用位置:
//   - internal/apiclient/client.go: AdminMe
type AdminInfoRespond struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName 界面显示名，优先全名，缺省用户名
func (a *AdminInfoRespond) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}
