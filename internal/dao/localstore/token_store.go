// Package localstore 提供客户端本地持久化
// 对应浏览器端的 localStorage：唯一持久化的状态是管理端访问令牌，
// 其余状态（当前会话 ID、消息列表）均为内存态
package localstore

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenStore 文件存储的访问令牌
type TokenStore struct {
	path string
}

// NewTokenStore 创建令牌存储
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Save 写入令牌，文件权限 0600
func (s *TokenStore) Save(token string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Load 读取令牌，不存在时返回空串
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Clear 删除令牌，对应登出
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
