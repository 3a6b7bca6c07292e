// Package slug 提供公司标识（slug）的派生和校验
// slug 由公司名称实时派生，用于登录页跳转和租户区分
package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaces  = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Generate 从公司名称派生 URL 安全的 slug
// 转换过程（有损）：小写 → 去除非法字符 → 空白转连字符 → 压缩连续连字符 → 去首尾连字符
// 该转换是幂等的：Generate(Generate(x)) == Generate(x)
func Generate(name string) string {
	s := strings.ToLower(name)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaces.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValid 检查 slug 是否仅包含小写字母、数字和连字符
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}
