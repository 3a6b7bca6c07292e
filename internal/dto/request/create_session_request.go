package request

// ClientInfo 访客联系信息
// 访客发起会话前必须填写，随会话创建请求一并提交
type ClientInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,chatemail"`
	Phone string `json:"phone" binding:"required"`
}

// CreateSessionRequest 访客创建会话请求
// 使用位置:
//   - internal/apiclient/client.go: CreateSession
//   - internal/service/widget/widget.go: StartChat
type CreateSessionRequest struct {
	ClientInfo ClientInfo `json:"client_info" binding:"required"`
}
