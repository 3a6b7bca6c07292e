package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNetwork, "请求失败")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeAPIError
}

// 业务状态码常量定义
// 分类对应客户端的四类故障：本地校验、HTTP 调用、WebSocket、认证
const (
	CodeValidation      = 2001 // 本地校验失败，未发起网络请求
	CodeNetwork         = 2002 // 网络传输失败（连接拒绝、超时等）
	CodeAPIError        = 2003 // 服务端返回非 2xx
	CodeUnauthorized    = 2004 // 未授权/令牌失效
	CodeWSClosed        = 2005 // WebSocket 连接未打开
	CodeSessionClosed   = 2006 // 会话已终结，禁止继续发送
	CodeUnknownEvent    = 2007 // 未识别的 WebSocket 事件类型
	CodeSessionNotReady = 2008 // 会话尚未建立
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrWSClosed      = New(CodeWSClosed, "WebSocket 连接未打开")
	ErrSessionClosed = New(CodeSessionClosed, "会话已关闭")
)

// IsUnauthorized 检查错误是否为认证失败
// 客户端据此把受保护请求的失败判定为令牌失效，触发登出
func IsUnauthorized(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeUnauthorized
}

// IsNetwork 检查错误是否为网络传输失败
// 网络失败与服务端业务失败需要区分提示
func IsNetwork(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == CodeNetwork
}
