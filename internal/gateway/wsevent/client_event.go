package wsevent

import (
	"encoding/json"

	"support_chat_client/pkg/errorx"
)

// 访客端入站事件类型，与管理端共用的字面量见 admin_event.go
const (
	TypeHandoffRequested = "handoff_requested"
	TypeAgentConnected   = "agent_connected"
)

// ClientEvent 访客端入站事件联合
type ClientEvent interface {
	clientEvent()
}

// ClientConnected 连接建立，携带欢迎语和会话当前状态
type ClientConnected struct {
	Message   string `json:"message"`
	SessionId string `json:"session_id"`
	State     string `json:"state"`
}

// ClientMessage 机器人或人工客服发来的消息
type ClientMessage struct {
	Content    string `json:"content"`
	SenderType string `json:"sender_type"`
	MessageId  string `json:"message_id,omitempty"`
}

// HandoffRequested 转人工已受理，访客进入等待人工状态
type HandoffRequested struct {
	Message string `json:"message"`
}

// AgentConnected 人工客服已接入
type AgentConnected struct {
	Message string `json:"message"`
}

// ClientSessionClosed 会话被关闭
// 这是终态：之后的发送操作全部失效，没有恢复路径
type ClientSessionClosed struct {
	Message string `json:"message"`
}

func (ClientConnected) clientEvent()     {}
func (ClientMessage) clientEvent()       {}
func (HandoffRequested) clientEvent()    {}
func (AgentConnected) clientEvent()      {}
func (ClientSessionClosed) clientEvent() {}

// DecodeClientEvent 解码访客端入站帧
// 未识别的 type 返回 CodeUnknownEvent 错误
func DecodeClientEvent(raw []byte) (ClientEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnknownEvent, "malformed client event")
	}

	var (
		event ClientEvent
		err   error
	)
	switch envelope.Type {
	case TypeConnected:
		event, err = decodeAs[ClientConnected](raw)
	case TypeMessage:
		event, err = decodeAs[ClientMessage](raw)
	case TypeHandoffRequested:
		event, err = decodeAs[HandoffRequested](raw)
	case TypeAgentConnected:
		event, err = decodeAs[AgentConnected](raw)
	case TypeSessionClosed:
		event, err = decodeAs[ClientSessionClosed](raw)
	default:
		return nil, errorx.Newf(errorx.CodeUnknownEvent, "unknown client event type %q", envelope.Type)
	}
	return event, err
}
