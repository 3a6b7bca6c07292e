package request

// LoginRequest 管理员密码登录请求
// 使用位置:
//   - internal/apiclient/client.go: Login
//   - internal/service/admin/console.go: Login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
