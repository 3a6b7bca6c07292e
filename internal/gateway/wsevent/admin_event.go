// Package wsevent 定义 WebSocket 消息的类型化表示
// 服务端以 JSON 对象下发事件，按 type 字段区分；
// 这里把每个角色的事件建模为封闭的标签联合，解码时做穷尽分派，
// 未识别的类型是解码错误而不是静默忽略
package wsevent

import (
	"encoding/json"

	"support_chat_client/internal/dto/respond"
	"support_chat_client/pkg/errorx"
)

// 管理端入站事件类型
const (
	TypeConnected             = "connected"
	TypeNewSessionQueued      = "new_session_queued"
	TypeQueueUpdate           = "queue_update"
	TypeSessionClaimed        = "session_claimed"
	TypeMessage               = "message"
	TypeSessionClaimedByOther = "session_claimed_by_other"
	TypeSessionClosed         = "session_closed"
	TypeError                 = "error"
)

// AdminEvent 管理端入站事件联合
// 实现类型见本文件，DecodeAdminEvent 负责穷尽分派
type AdminEvent interface {
	adminEvent()
}

// AdminConnected 连接建立，服务端回送欢迎信息和当前队列规模
type AdminConnected struct {
	Message   string `json:"message"`
	QueueSize int    `json:"queue_size"`
}

// NewSessionQueued 有新会话进入等待队列
type NewSessionQueued struct {
	SessionId  string `json:"session_id"`
	ClientName string `json:"client_name"`
	QueueSize  int    `json:"queue_size"`
}

// QueueUpdate 队列规模变化
type QueueUpdate struct {
	QueueSize int `json:"queue_size"`
}

// SessionClaimed 本管理员认领会话成功
type SessionClaimed struct {
	SessionId  string                    `json:"session_id"`
	ClientInfo respond.ClientInfoRespond `json:"client_info"`
}

// AdminMessage 会话内的新消息
// MessageId 为发送端附带的关联 ID，用于抑制服务端回显造成的重复渲染
type AdminMessage struct {
	SessionId  string `json:"session_id"`
	Content    string `json:"content"`
	SenderType string `json:"sender_type"`
	MessageId  string `json:"message_id,omitempty"`
}

// SessionClaimedByOther 会话被其他管理员抢先认领
type SessionClaimedByOther struct {
	SessionId string `json:"session_id"`
	QueueSize int    `json:"queue_size"`
}

// AdminSessionClosed 会话已关闭的服务端确认
type AdminSessionClosed struct {
	SessionId string `json:"session_id"`
}

// AdminError 服务端对非法命令的错误提示（如认领不存在的会话）
type AdminError struct {
	Message string `json:"message"`
}

func (AdminConnected) adminEvent()        {}
func (NewSessionQueued) adminEvent()      {}
func (QueueUpdate) adminEvent()           {}
func (SessionClaimed) adminEvent()        {}
func (AdminMessage) adminEvent()          {}
func (SessionClaimedByOther) adminEvent() {}
func (AdminSessionClosed) adminEvent()    {}
func (AdminError) adminEvent()            {}

// DecodeAdminEvent 解码管理端入站帧
// 未识别的 type 返回 CodeUnknownEvent 错误
func DecodeAdminEvent(raw []byte) (AdminEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnknownEvent, "malformed admin event")
	}

	var (
		event AdminEvent
		err   error
	)
	switch envelope.Type {
	case TypeConnected:
		event, err = decodeAs[AdminConnected](raw)
	case TypeNewSessionQueued:
		event, err = decodeAs[NewSessionQueued](raw)
	case TypeQueueUpdate:
		event, err = decodeAs[QueueUpdate](raw)
	case TypeSessionClaimed:
		event, err = decodeAs[SessionClaimed](raw)
	case TypeMessage:
		event, err = decodeAs[AdminMessage](raw)
	case TypeSessionClaimedByOther:
		event, err = decodeAs[SessionClaimedByOther](raw)
	case TypeSessionClosed:
		event, err = decodeAs[AdminSessionClosed](raw)
	case TypeError:
		event, err = decodeAs[AdminError](raw)
	default:
		return nil, errorx.Newf(errorx.CodeUnknownEvent, "unknown admin event type %q", envelope.Type)
	}
	return event, err
}

func decodeAs[T any](raw []byte) (T, error) {
	var event T
	if err := json.Unmarshal(raw, &event); err != nil {
		return event, errorx.Wrap(err, errorx.CodeUnknownEvent, "malformed event payload")
	}
	return event, nil
}
