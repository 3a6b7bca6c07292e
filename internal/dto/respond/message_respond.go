package respond

import "strings"

// 发送方类型，服务端以大写枚举下发
const (
	SenderClient = "CLIENT"
	SenderBot    = "AI"
	SenderAdmin  = "ADMIN"
)

// NormalizeSender 把服务端的发送方枚举归一为界面用的小写形式
// AI 在用户视角显示为 bot
func NormalizeSender(senderType string) string {
	switch strings.ToUpper(senderType) {
	case SenderBot:
		return "bot"
	case SenderAdmin:
		return "admin"
	default:
		return "client"
	}
}

// MessageRespond 历史消息
// 排序即接收顺序，客户端不做重排或去重
// 使用位置:
//   - internal/apiclient/client.go: SessionMessages
type MessageRespond struct {
	MessageId  string `json:"message_id,omitempty"`
	Content    string `json:"content"`
	SenderType string `json:"sender_type"`
	CreatedAt  string `json:"created_at,omitempty"`
}
