// Package widget 实现可嵌入的访客聊天挂件控制逻辑
// 单例，一次性注入配置；面板显隐切换不影响底层连接；
// 会话被关闭后进入终态，之后的发送一律不产生出站帧
package widget

import (
	"context"
	"fmt"
	"sync"

	"support_chat_client/internal/apiclient"
	"support_chat_client/internal/config"
	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/dto/respond"
	"support_chat_client/internal/gateway/websocket"
	"support_chat_client/internal/gateway/wsevent"
	"support_chat_client/internal/validate"
	"support_chat_client/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options 挂件配置，调用方提供的字段覆盖默认值
type Options struct {
	ApiUrl       string
	WsUrl        string
	Position     string
	PrimaryColor string
	Greeting     string
	CompanyName  string
	// Reconnect 访客连接断开后是否自动重连
	// 原产品访客端没有重连逻辑（会话短暂，是否有意为之无从判断），
	// 因此作为可配置项保留，默认关闭
	Reconnect bool
	Policy    websocket.ReconnectPolicy
}

// DefaultOptions 与原产品挂件一致的默认配置
func DefaultOptions() Options {
	return Options{
		ApiUrl:       "http://localhost:8000",
		Position:     "bottom-right",
		PrimaryColor: "#6366f1",
		Greeting:     "Hi! How can I help you today?",
		CompanyName:  "Support",
	}
}

// Merge 用调用方给出的非零字段覆盖默认配置
func (o Options) Merge(override Options) Options {
	if override.ApiUrl != "" {
		o.ApiUrl = override.ApiUrl
		o.WsUrl = ""
	}
	if override.WsUrl != "" {
		o.WsUrl = override.WsUrl
	}
	if override.Position != "" {
		o.Position = override.Position
	}
	if override.PrimaryColor != "" {
		o.PrimaryColor = override.PrimaryColor
	}
	if override.Greeting != "" {
		o.Greeting = override.Greeting
	}
	if override.CompanyName != "" {
		o.CompanyName = override.CompanyName
	}
	o.Reconnect = override.Reconnect
	if override.Policy.Delay > 0 {
		o.Policy = override.Policy
	}
	return o
}

// Display 挂件视图接口，由终端前端实现
type Display interface {
	AppendMessage(sender, content string)
	ShowNotice(text string)
	SetBanner(text string)
	ClearBanner()
	SetStatus(status string)
	DisableInput()
}

// Widget 访客聊天挂件
type Widget struct {
	opts    Options
	api     *apiclient.Client
	display Display

	mu        sync.Mutex
	sessionId string
	conn      *websocket.Conn
	minimized bool
	starting  bool // 会话创建请求进行中，抑制重复提交
	started   bool
	closed    bool // 终态，没有恢复路径
	sentIds   map[string]struct{}
}

// New 创建挂件实例，opts 覆盖默认配置
func New(opts Options, display Display) *Widget {
	merged := DefaultOptions().Merge(opts)
	if merged.WsUrl == "" {
		merged.WsUrl = config.DeriveWsUrl(merged.ApiUrl)
	}
	return &Widget{
		opts:      merged,
		api:       apiclient.New(merged.ApiUrl, nil),
		display:   display,
		minimized: true,
		sentIds:   make(map[string]struct{}),
	}
}

// Options 合并后的生效配置
func (w *Widget) Options() Options {
	return w.opts
}

// SessionId 当前会话 ID，未开始时为空
func (w *Widget) SessionId() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionId
}

// Toggle 切换面板显隐，不影响底层连接
func (w *Widget) Toggle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = !w.minimized
	return !w.minimized
}

// Minimize 收起面板，底层连接保持
func (w *Widget) Minimize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = true
}

// StartChat 提交联系信息并开始会话
// 恰好发起一次 POST /api/sessions，并为返回的会话 ID 打开恰好一条 WebSocket；
// 进行中或已开始的重复调用不再发请求
func (w *Widget) StartChat(ctx context.Context, name, email, phone string) error {
	w.mu.Lock()
	if w.starting || w.started {
		w.mu.Unlock()
		return nil
	}
	w.starting = true
	w.mu.Unlock()

	err := w.startChat(ctx, name, email, phone)

	w.mu.Lock()
	w.starting = false
	w.mu.Unlock()
	return err
}

func (w *Widget) startChat(ctx context.Context, name, email, phone string) error {
	req := request.CreateSessionRequest{
		ClientInfo: request.ClientInfo{Name: name, Email: email, Phone: phone},
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	session, err := w.api.CreateSession(ctx, req)
	if err != nil {
		return errorx.Wrap(err, errorx.GetCode(err), "Failed to start chat. Please try again.")
	}

	conn, err := websocket.Dial(websocket.Config{
		Url:     fmt.Sprintf("%s/ws/client/%s", w.opts.WsUrl, session.SessionId),
		Policy:  w.policy(),
		OnFrame: w.handleFrame,
		OnDrop: func(err error) {
			w.display.ShowNotice("Connection lost. Please start a new chat.")
		},
		Guard: func() bool {
			// 会话终结后不再重连
			w.mu.Lock()
			defer w.mu.Unlock()
			return w.started && !w.closed
		},
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.sessionId = session.SessionId
	w.conn = conn
	w.started = true
	w.mu.Unlock()
	return nil
}

// policy 根据配置构造重连策略
func (w *Widget) policy() websocket.ReconnectPolicy {
	if !w.opts.Reconnect {
		return websocket.ReconnectPolicy{}
	}
	if w.opts.Policy.Delay > 0 {
		p := w.opts.Policy
		p.Enabled = true
		return p
	}
	return websocket.DefaultReconnectPolicy()
}

// handleFrame 入站帧分派，在读协程上执行
func (w *Widget) handleFrame(raw []byte) {
	event, err := wsevent.DecodeClientEvent(raw)
	if err != nil {
		zap.L().Warn("访客端事件解码失败", zap.Error(err))
		return
	}

	switch e := event.(type) {
	case wsevent.ClientConnected:
		message := e.Message
		if message == "" {
			message = w.opts.Greeting
		}
		w.display.AppendMessage("bot", message)

	case wsevent.ClientMessage:
		w.appendInbound(e)

	case wsevent.HandoffRequested:
		w.display.AppendMessage("bot", e.Message)
		w.display.SetBanner("Connecting you with a human agent...")
		w.display.SetStatus("Waiting for agent...")

	case wsevent.AgentConnected:
		w.display.ClearBanner()
		w.display.AppendMessage("bot", e.Message)
		w.display.SetStatus("Human Agent")

	case wsevent.ClientSessionClosed:
		w.display.AppendMessage("bot", e.Message)
		w.display.SetStatus("Chat Closed")
		w.display.DisableInput()
		w.terminate()
	}
}

// appendInbound 追加机器人/人工消息，抑制本地乐观上屏的回显
func (w *Widget) appendInbound(e wsevent.ClientMessage) {
	if e.MessageId != "" {
		w.mu.Lock()
		if _, echoed := w.sentIds[e.MessageId]; echoed {
			delete(w.sentIds, e.MessageId)
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()
	}
	w.display.AppendMessage(respond.NormalizeSender(e.SenderType), e.Content)
}

// terminate 进入终态：关闭连接、禁止后续发送
func (w *Widget) terminate() {
	w.mu.Lock()
	w.closed = true
	conn := w.conn
	w.conn = nil
	w.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// SendMessage 发送访客消息
// 终态或连接未打开时为空操作，不产生任何出站帧
func (w *Widget) SendMessage(content string) error {
	if content == "" {
		return nil
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errorx.ErrSessionClosed
	}
	conn := w.conn
	w.mu.Unlock()

	if conn == nil || !conn.IsOpen() {
		return errorx.ErrWSClosed
	}

	messageId := uuid.NewString()
	w.mu.Lock()
	w.sentIds[messageId] = struct{}{}
	w.mu.Unlock()

	if err := conn.Send(wsevent.VisitorMessage{Content: content, MessageId: messageId}); err != nil {
		w.mu.Lock()
		delete(w.sentIds, messageId)
		w.mu.Unlock()
		return err
	}

	w.display.AppendMessage("client", content)
	return nil
}

// Close 释放底层连接（进程退出时调用）
func (w *Widget) Close() {
	w.terminate()
}
