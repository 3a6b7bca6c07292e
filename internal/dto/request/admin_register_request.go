package request

// AdminRegisterRequest 管理员注册请求
// 使用位置:
//   - internal/apiclient/client.go: RegisterAdmin
//   - internal/service/admin/console.go: Register
type AdminRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,chatemail"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name,omitempty" binding:"omitempty"`
}
