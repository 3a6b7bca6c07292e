// Package admin 实现运营端控制台的控制逻辑
// 状态流转：未认证 → 认证中 → 已认证（WebSocket 在线）
// 所有可变状态（令牌、连接、当前会话）由 Console 实例显式持有，不使用包级全局
package admin

import (
	"context"
	"sync"
	"time"

	"support_chat_client/internal/apiclient"
	"support_chat_client/internal/dao/localstore"
	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/dto/respond"
	"support_chat_client/internal/gateway/websocket"
	"support_chat_client/internal/gateway/wsevent"
	"support_chat_client/internal/validate"
	"support_chat_client/pkg/errorx"
	jwtutil "support_chat_client/pkg/util/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UI 控制台视图接口，由终端前端实现
// 列表渲染是整体重绘，不做增量 diff
type UI interface {
	Alert(msg string)
	RenderQueue(sessions []respond.SessionRespond)
	RenderActive(sessions []respond.SessionRespond)
	UpdateQueueCount(n int)
	OpenChat(sessionId string, info respond.ClientInfoRespond)
	AppendMessage(sessionId, sender, content string)
	CloseChat()
}

// Config 控制台配置
type Config struct {
	ApiUrl string
	WsUrl  string
	Policy websocket.ReconnectPolicy
	Tokens *localstore.TokenStore
	UI     UI
}

// Console 运营端控制台
type Console struct {
	cfg Config
	api *apiclient.Client

	mu               sync.Mutex
	token            string
	identity         *respond.AdminInfoRespond
	conn             *websocket.Conn
	currentSessionId string
	pendingClaims    map[string]bool     // 认领命令已发出、尚未裁决的会话，抑制重复点击
	sentIds          map[string]struct{} // 乐观上屏的关联 ID，用于抑制服务端回显
}

// NewConsole 创建控制台实例
func NewConsole(cfg Config) *Console {
	c := &Console{
		cfg:           cfg,
		pendingClaims: make(map[string]bool),
		sentIds:       make(map[string]struct{}),
	}
	c.api = apiclient.New(cfg.ApiUrl, c.Token)
	return c
}

// Token 当前访问令牌，登出后为空
// 同时充当重连守卫的判据
func (c *Console) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// setToken 更新当前访问令牌
func (c *Console) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Identity 当前管理员身份，未登录时为 nil
func (c *Console) Identity() *respond.AdminInfoRespond {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// CurrentSessionId 当前打开的会话 ID，未打开时为空
func (c *Console) CurrentSessionId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSessionId
}

// Resume 尝试用本地存储的令牌恢复登录
// 没有令牌或令牌已经明显过期时返回 false，不发起连接
func (c *Console) Resume(ctx context.Context) (bool, error) {
	token, err := c.cfg.Tokens.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	if jwtutil.Expired(token, time.Now()) {
		zap.L().Info("本地令牌已过期，跳过自动登录")
		_ = c.cfg.Tokens.Clear()
		return false, nil
	}

	c.setToken(token)
	if err := c.connect(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Login 管理员登录
// 成功后存储令牌、建立 WebSocket、拉取身份信息
func (c *Console) Login(ctx context.Context, username, password string) error {
	req := request.LoginRequest{Username: username, Password: password}
	if err := validate.Struct(&req); err != nil {
		return err
	}

	resp, err := c.api.Login(ctx, req)
	if err != nil {
		return err
	}
	return c.adopt(ctx, resp.AccessToken)
}

// Register 管理员注册，成功后直接进入已认证状态
func (c *Console) Register(ctx context.Context, req request.AdminRegisterRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}

	resp, err := c.api.RegisterAdmin(ctx, req)
	if err != nil {
		return err
	}
	return c.adopt(ctx, resp.AccessToken)
}

// adopt 接纳新令牌并建立连接
func (c *Console) adopt(ctx context.Context, token string) error {
	if err := c.cfg.Tokens.Save(token); err != nil {
		return err
	}
	c.setToken(token)
	return c.connect(ctx)
}

// connect 打开管理端 WebSocket 并拉取身份信息
// /api/admin/me 失败视为令牌失效，强制登出
func (c *Console) connect(ctx context.Context) error {
	conn, err := websocket.Dial(websocket.Config{
		Url:     c.cfg.WsUrl + "/ws/admin?token=" + c.Token(),
		Policy:  c.cfg.Policy,
		OnFrame: c.handleFrame,
		Guard: func() bool {
			// 显式登出后令牌被清空，重连随之停止
			return c.Token() != ""
		},
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	identity, err := c.api.AdminMe(ctx)
	if err != nil {
		zap.L().Warn("拉取管理员身份失败，视为令牌失效", zap.Error(err))
		c.Logout()
		return errorx.Wrap(err, errorx.CodeUnauthorized, "登录状态已失效，请重新登录")
	}

	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
	return nil
}

// Logout 显式登出：清空令牌、关闭连接、回到未认证状态
// 令牌清空发生在连接关闭之前，保证重连守卫一定拒绝
func (c *Console) Logout() {
	c.mu.Lock()
	c.token = ""
	c.identity = nil
	c.currentSessionId = ""
	conn := c.conn
	c.conn = nil
	c.pendingClaims = make(map[string]bool)
	c.sentIds = make(map[string]struct{})
	c.mu.Unlock()

	_ = c.cfg.Tokens.Clear()
	if conn != nil {
		_ = conn.Close()
	}
}

// handleFrame 入站帧分派，在读协程上执行
func (c *Console) handleFrame(raw []byte) {
	event, err := wsevent.DecodeAdminEvent(raw)
	if err != nil {
		zap.L().Warn("管理端事件解码失败", zap.Error(err))
		return
	}

	switch e := event.(type) {
	case wsevent.AdminConnected:
		c.RefreshQueue(context.Background())
		c.RefreshActive(context.Background())

	case wsevent.NewSessionQueued:
		c.RefreshQueue(context.Background())
		c.cfg.UI.UpdateQueueCount(e.QueueSize)

	case wsevent.QueueUpdate:
		c.cfg.UI.UpdateQueueCount(e.QueueSize)

	case wsevent.SessionClaimed:
		c.clearPendingClaim(e.SessionId)
		if err := c.OpenSession(context.Background(), e.SessionId, e.ClientInfo); err != nil {
			zap.L().Warn("加载会话历史失败", zap.Error(err))
		}

	case wsevent.AdminMessage:
		c.appendInbound(e)

	case wsevent.SessionClaimedByOther:
		// 认领竞争失败，归属权由服务端裁决
		c.clearPendingClaim(e.SessionId)
		c.RefreshQueue(context.Background())
		c.cfg.UI.UpdateQueueCount(e.QueueSize)

	case wsevent.AdminSessionClosed:
		c.mu.Lock()
		isCurrent := e.SessionId == c.currentSessionId
		if isCurrent {
			c.currentSessionId = ""
		}
		c.mu.Unlock()
		if isCurrent {
			c.cfg.UI.CloseChat()
		}

	case wsevent.AdminError:
		c.cfg.UI.Alert(e.Message)
	}
}

// appendInbound 处理会话内新消息
// 非当前会话的消息直接丢弃（不缓存不补投）；
// 与本地乐观上屏同关联 ID 的回显被抑制，避免重复渲染
func (c *Console) appendInbound(e wsevent.AdminMessage) {
	c.mu.Lock()
	if e.SessionId != c.currentSessionId {
		c.mu.Unlock()
		return
	}
	if e.MessageId != "" {
		if _, echoed := c.sentIds[e.MessageId]; echoed {
			delete(c.sentIds, e.MessageId)
			c.mu.Unlock()
			return
		}
	}
	c.mu.Unlock()

	c.cfg.UI.AppendMessage(e.SessionId, respond.NormalizeSender(e.SenderType), e.Content)
}

// RefreshQueue 重新拉取并整体重绘等待队列
func (c *Console) RefreshQueue(ctx context.Context) {
	sessions, err := c.api.AdminQueue(ctx)
	if err != nil {
		zap.L().Warn("拉取等待队列失败", zap.Error(err))
		return
	}
	c.cfg.UI.RenderQueue(sessions)
	c.cfg.UI.UpdateQueueCount(len(sessions))
}

// RefreshActive 重新拉取并整体重绘活跃会话列表
func (c *Console) RefreshActive(ctx context.Context) {
	sessions, err := c.api.AdminActive(ctx)
	if err != nil {
		zap.L().Warn("拉取活跃会话失败", zap.Error(err))
		return
	}
	c.cfg.UI.RenderActive(sessions)
}

// Claim 认领队列中的会话
// 同一会话的重复认领（快速双击）被本地抑制，最终归属由服务端裁决
func (c *Console) Claim(sessionId string) error {
	c.mu.Lock()
	if c.pendingClaims[sessionId] {
		c.mu.Unlock()
		return nil
	}
	c.pendingClaims[sessionId] = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.clearPendingClaim(sessionId)
		return errorx.ErrWSClosed
	}
	if err := conn.Send(wsevent.NewClaimSession(sessionId)); err != nil {
		c.clearPendingClaim(sessionId)
		return err
	}
	return nil
}

func (c *Console) clearPendingClaim(sessionId string) {
	c.mu.Lock()
	delete(c.pendingClaims, sessionId)
	c.mu.Unlock()
}

// OpenSession 打开会话聊天面板
// 历史消息经 REST 一次性加载，之后仅追加 WebSocket 实时消息
func (c *Console) OpenSession(ctx context.Context, sessionId string, info respond.ClientInfoRespond) error {
	messages, err := c.api.SessionMessages(ctx, sessionId)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.currentSessionId = sessionId
	c.mu.Unlock()

	c.cfg.UI.OpenChat(sessionId, info)
	for _, msg := range messages {
		c.cfg.UI.AppendMessage(sessionId, respond.NormalizeSender(msg.SenderType), msg.Content)
	}
	return nil
}

// Send 向当前会话发送消息
// 本地乐观上屏并记录关联 ID；连接未打开或无当前会话时不发送
func (c *Console) Send(content string) error {
	if content == "" {
		return nil
	}

	c.mu.Lock()
	sessionId := c.currentSessionId
	conn := c.conn
	c.mu.Unlock()

	if sessionId == "" {
		return errorx.New(errorx.CodeSessionNotReady, "未打开任何会话")
	}
	if conn == nil || !conn.IsOpen() {
		return errorx.ErrWSClosed
	}

	messageId := uuid.NewString()
	c.mu.Lock()
	c.sentIds[messageId] = struct{}{}
	c.mu.Unlock()

	if err := conn.Send(wsevent.NewMessage(sessionId, content, messageId)); err != nil {
		c.mu.Lock()
		delete(c.sentIds, messageId)
		c.mu.Unlock()
		return err
	}

	c.cfg.UI.AppendMessage(sessionId, "admin", content)
	return nil
}

// CloseSession 关闭当前会话并清空面板状态
func (c *Console) CloseSession() error {
	c.mu.Lock()
	sessionId := c.currentSessionId
	conn := c.conn
	c.currentSessionId = ""
	c.mu.Unlock()

	if sessionId == "" {
		return nil
	}
	c.cfg.UI.CloseChat()

	if conn == nil || !conn.IsOpen() {
		return errorx.ErrWSClosed
	}
	return conn.Send(wsevent.NewCloseSession(sessionId))
}

// RequestQueueUpdate 主动请求一次队列概况
func (c *Console) RequestQueueUpdate() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil || !conn.IsOpen() {
		return errorx.ErrWSClosed
	}
	return conn.Send(wsevent.NewGetQueue())
}
