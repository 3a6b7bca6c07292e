package request

// CompanyRegisterRequest 公司（租户）注册请求
// Slug 由 Name 实时派生，提交前在客户端完成字符集、邮箱、密码长度校验；
// 服务端仍是最终裁决方，这里的校验只是提交前的本地闸门
// 使用位置:
//   - internal/apiclient/client.go: RegisterCompany
//   - internal/service/registration/service.go: Submit
type CompanyRegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required,slug"`
	Email       string `json:"email" binding:"required,chatemail"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone,omitempty" binding:"omitempty"`
	Website     string `json:"website,omitempty" binding:"omitempty"`
	Description string `json:"description,omitempty" binding:"omitempty"`
}
