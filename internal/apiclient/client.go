// Package apiclient 封装对后端 REST 接口的调用
// JSON 请求体，受保护接口使用 Bearer 认证；
// 非 2xx 响应原样透出服务端的 detail 消息，网络失败与业务失败分码区分
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/dto/respond"
	"support_chat_client/pkg/errorx"
)

// Client 后端 REST 客户端
type Client struct {
	baseUrl string
	http    *http.Client
	tokenFn func() string // 动态取当前令牌，登出后返回空
}

// New 创建 REST 客户端
// tokenFn 可为 nil（仅访问无需认证的接口时）
func New(baseUrl string, tokenFn func() string) *Client {
	return &Client{
		baseUrl: baseUrl,
		http:    &http.Client{},
		tokenFn: tokenFn,
	}
}

// Login 管理员登录
// POST /api/auth/login
func (c *Client) Login(ctx context.Context, req request.LoginRequest) (*respond.TokenRespond, error) {
	var out respond.TokenRespond
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterAdmin 管理员注册
// POST /api/auth/register
func (c *Client) RegisterAdmin(ctx context.Context, req request.AdminRegisterRequest) (*respond.TokenRespond, error) {
	var out respond.TokenRespond
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminMe 获取当前管理员身份
// GET /api/admin/me，失败（含 401/403）由调用方视为令牌失效
func (c *Client) AdminMe(ctx context.Context) (*respond.AdminInfoRespond, error) {
	var out respond.AdminInfoRespond
	if err := c.do(ctx, http.MethodGet, "/api/admin/me", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminQueue 获取等待队列中的会话
// GET /api/admin/queue
func (c *Client) AdminQueue(ctx context.Context) ([]respond.SessionRespond, error) {
	var out []respond.SessionRespond
	if err := c.do(ctx, http.MethodGet, "/api/admin/queue", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminActive 获取已认领（活跃）的会话
// GET /api/admin/active
func (c *Client) AdminActive(ctx context.Context) ([]respond.SessionRespond, error) {
	var out []respond.SessionRespond
	if err := c.do(ctx, http.MethodGet, "/api/admin/active", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionMessages 获取会话的完整历史消息
// GET /api/sessions/{id}/messages
func (c *Client) SessionMessages(ctx context.Context, sessionId string) ([]respond.MessageRespond, error) {
	var out []respond.MessageRespond
	path := fmt.Sprintf("/api/sessions/%s/messages", sessionId)
	if err := c.do(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession 访客创建会话
// POST /api/sessions，返回的 session_id 用于后续 WebSocket 连接
func (c *Client) CreateSession(ctx context.Context, req request.CreateSessionRequest) (*respond.SessionRespond, error) {
	var out respond.SessionRespond
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterCompany 公司（租户）注册
// POST /api/companies/register
func (c *Client) RegisterCompany(ctx context.Context, req request.CompanyRegisterRequest) (*respond.CompanyRegisterRespond, error) {
	var out respond.CompanyRegisterRespond
	if err := c.do(ctx, http.MethodPost, "/api/companies/register", req, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do 执行一次 JSON 请求
// 传输失败 → CodeNetwork；401/403 → CodeUnauthorized；其余非 2xx → CodeAPIError
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errorx.Wrap(err, errorx.CodeAPIError, "请求序列化失败")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, reader)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeAPIError, "构造请求失败")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokenFn != nil {
		if token := c.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeNetwork, "network error")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeNetwork, "network error")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := errorx.CodeAPIError
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			code = errorx.CodeUnauthorized
		}
		return errorx.New(code, detailMessage(raw))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errorx.Wrap(err, errorx.CodeAPIError, "响应解析失败")
		}
	}
	return nil
}

// detailMessage 提取服务端错误响应中的 detail 字段
// 缺失或无法解析时返回通用提示
func detailMessage(raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return "Request failed. Please try again."
}
