package respond

// CompanyRegisterRespond 公司注册成功响应
// Slug 随成功响应返回，用于拼接管理端登录页的跳转地址
// 使用位置:
//   - internal/apiclient/client.go: RegisterCompany
//   - internal/service/registration/service.go: Submit
type CompanyRegisterRespond struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Email string `json:"email,omitempty"`
}
