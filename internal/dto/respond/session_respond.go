package respond

// ClientInfoRespond 会话中的访客联系信息
type ClientInfoRespond struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SessionRespond 会话信息
// 会话由服务端所有，客户端只持有瞬态引用（session_id）
// 生命周期（queued → claimed → active → closed）由服务端事件推动
// 使用位置:
//   - internal/apiclient/client.go: AdminQueue, AdminActive, CreateSession
type SessionRespond struct {
	SessionId  string            `json:"session_id"`
	State      string            `json:"state,omitempty"`
	ClientInfo ClientInfoRespond `json:"client_info"`
	CreatedAt  string            `json:"created_at,omitempty"`
}
