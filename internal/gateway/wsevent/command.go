package wsevent

import "encoding/json"

// 管理端出站命令类型
const (
	TypeClaimSession = "claim_session"
	TypeCloseSession = "close_session"
	TypeGetQueue     = "get_queue"
)

// ClaimSessionCommand 认领队列中的会话
// 认领是竞态操作，多个管理员同时认领时由服务端裁决归属
type ClaimSessionCommand struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id"`
}

// MessageCommand 管理员向会话发送消息
// MessageId 为本地生成的关联 ID，用于识别并抑制服务端的回显
type MessageCommand struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id"`
	Content   string `json:"content"`
	MessageId string `json:"message_id,omitempty"`
}

// CloseSessionCommand 管理员关闭会话
type CloseSessionCommand struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id"`
}

// GetQueueCommand 主动请求一次队列概况
type GetQueueCommand struct {
	Type string `json:"type"`
}

// VisitorMessage 访客出站消息，type 隐含为 message
type VisitorMessage struct {
	Content   string `json:"content"`
	MessageId string `json:"message_id,omitempty"`
}

// NewClaimSession 构造认领命令
func NewClaimSession(sessionId string) ClaimSessionCommand {
	return ClaimSessionCommand{Type: TypeClaimSession, SessionId: sessionId}
}

// NewMessage 构造消息命令
func NewMessage(sessionId, content, messageId string) MessageCommand {
	return MessageCommand{Type: TypeMessage, SessionId: sessionId, Content: content, MessageId: messageId}
}

// NewCloseSession 构造关闭命令
func NewCloseSession(sessionId string) CloseSessionCommand {
	return CloseSessionCommand{Type: TypeCloseSession, SessionId: sessionId}
}

// NewGetQueue 构造队列查询命令
func NewGetQueue() GetQueueCommand {
	return GetQueueCommand{Type: TypeGetQueue}
}

// Encode 序列化出站命令
func Encode(cmd any) ([]byte, error) {
	return json.Marshal(cmd)
}
