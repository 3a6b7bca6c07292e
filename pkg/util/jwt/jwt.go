// Package jwt 提供客户端侧的令牌检查
// 令牌由服务端签发与校验，对客户端而言是不透明凭证；
// 这里仅做不验签的声明解析，用于在自动登录前跳过明显过期的本地令牌
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// parser 不验签的解析器，客户端没有也不应持有签名密钥
var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Expired 判断本地存储的令牌是否已过期
// 解析失败（非 JWT 格式等）或未携带过期声明时返回 false：
// 此时令牌是否有效只能交给服务端裁决（/api/admin/me 失败即视为失效）
func Expired(tokenString string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
