// Package websocket 管理到后端的 WebSocket 客户端连接
// 一条连接在其生命周期内 1:1 绑定一个逻辑身份（管理员或访客会话）；
// 重连建立的是新的逻辑连接而非续流，连接建立后由持有方重新执行初始化动作
package websocket

import (
	"sync"
	"time"

	"support_chat_client/internal/gateway/wsevent"
	"support_chat_client/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ReconnectPolicy 断线重连策略
// 原产品管理端是固定 3 秒、无上限的重试；这里改为可配置的封顶指数退避，
// 并且在显式关闭或 Guard 返回 false（如已登出）时取消
type ReconnectPolicy struct {
	Enabled     bool
	Delay       time.Duration // 首次重试延迟
	MaxDelay    time.Duration // 退避上限
	MaxAttempts int           // 最大重试次数，0 表示不限
}

// DefaultReconnectPolicy 管理端默认策略：3 秒起步，封顶 30 秒
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Enabled:  true,
		Delay:    3 * time.Second,
		MaxDelay: 30 * time.Second,
	}
}

// Config 连接配置
type Config struct {
	Url    string
	Policy ReconnectPolicy

	// OnFrame 收到入站帧时回调，在读协程上执行
	OnFrame func(raw []byte)
	// OnConnect 每次连接（含重连）建立后回调
	OnConnect func()
	// OnDrop 连接断开且不再重试时回调
	OnDrop func(err error)
	// Guard 每次重试前询问是否仍应重连（如：令牌是否仍然存在）
	Guard func() bool
}

// Conn 一条到后端的 WebSocket 逻辑连接
type Conn struct {
	cfg Config

	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool

	done     chan struct{}
	doneOnce sync.Once
}

// Dial 建立连接并启动读协程
// 首次连接失败直接返回错误，不触发重试（重试只针对已建立连接的意外断开）
func Dial(cfg Config) (*Conn, error) {
	c := &Conn{
		cfg:  cfg,
		done: make(chan struct{}),
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// connect 建立一次物理连接并启动读循环
func (c *Conn) connect() error {
	ws, _, err := websocket.DefaultDialer.Dial(c.cfg.Url, nil)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeNetwork, "WebSocket 连接失败")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = ws.Close()
		return errorx.ErrWSClosed
	}
	c.ws = ws
	c.mu.Unlock()

	go c.readLoop(ws)
	if c.cfg.OnConnect != nil {
		c.cfg.OnConnect()
	}
	return nil
}

// readLoop 持续读取入站帧并交给 OnFrame
// 读取出错视为连接断开，按策略进入重连
func (c *Conn) readLoop(ws *websocket.Conn) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			c.handleDrop(err)
			return
		}
		if c.cfg.OnFrame != nil {
			c.cfg.OnFrame(raw)
		}
	}
}

// handleDrop 处理连接断开
func (c *Conn) handleDrop(err error) {
	c.mu.Lock()
	c.ws = nil
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	zap.L().Warn("WebSocket 连接断开", zap.Error(err))

	if !c.cfg.Policy.Enabled {
		if c.cfg.OnDrop != nil {
			c.cfg.OnDrop(err)
		}
		return
	}
	go c.reconnectLoop()
}

// reconnectLoop 按封顶指数退避重试
// 显式 Close 或 Guard 拒绝时立即停止
func (c *Conn) reconnectLoop() {
	delay := c.cfg.Policy.Delay
	if delay <= 0 {
		delay = 3 * time.Second
	}

	for attempt := 1; ; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		if c.isClosed() {
			return
		}
		if c.cfg.Guard != nil && !c.cfg.Guard() {
			zap.L().Info("重连守卫拒绝，停止重连")
			return
		}

		err := c.connect()
		if err == nil {
			zap.L().Info("WebSocket 重连成功", zap.Int("attempt", attempt))
			return
		}
		zap.L().Warn("WebSocket 重连失败", zap.Int("attempt", attempt), zap.Error(err))

		if c.cfg.Policy.MaxAttempts > 0 && attempt >= c.cfg.Policy.MaxAttempts {
			if c.cfg.OnDrop != nil {
				c.cfg.OnDrop(err)
			}
			return
		}

		delay *= 2
		if max := c.cfg.Policy.MaxDelay; max > 0 && delay > max {
			delay = max
		}
	}
}

// Send 序列化并发送一条出站命令
// 连接未打开时返回 ErrWSClosed，不排队不补发
func (c *Conn) Send(cmd any) error {
	raw, err := wsevent.Encode(cmd)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeWSClosed, "命令序列化失败")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws == nil || c.closed {
		return errorx.ErrWSClosed
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
		return errorx.Wrap(err, errorx.CodeWSClosed, "消息发送失败")
	}
	return nil
}

// IsOpen 当前是否持有打开的物理连接
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws != nil && !c.closed
}

// isClosed 当前连接是否已被显式关闭
func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close 显式关闭连接并取消所有待执行的重连
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	ws := c.ws
	c.ws = nil
	c.mu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
	if ws != nil {
		return ws.Close()
	}
	return nil
}
