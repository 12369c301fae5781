package unifi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnknownOperation 操作未在目录中注册
	ErrUnknownOperation = errors.New("unifi: unknown operation")

	// ErrInvalidCommand 命令不在端点的白名单中
	ErrInvalidCommand = errors.New("unifi: invalid command")

	// ErrNotCommandEndpoint 对非命令端点执行命令分发
	ErrNotCommandEndpoint = errors.New("unifi: not a command endpoint")
)

// AuthError 登录被控制器拒绝
// 对当前操作是致命错误，超过一次重登录后不再重试
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unifi: authentication failed: %s", e.Message)
}

// RequestError 传输层失败（连接、超时等）
// 是否重试由调用方决定，网关本身不做透明重试
type RequestError struct {
	Operation string
	Path      string
	Err       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("unifi: request failed: %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ResponseError 控制器返回了错误响应
// 包括 HTTP 4xx/5xx 与 rc != "ok" 的信封，msg 原样透传
type ResponseError struct {
	Operation  string
	Path       string
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unifi: controller error: %s %s: status=%d msg=%s",
		e.Operation, e.Path, e.StatusCode, e.Message)
}

// IsNotFound 是否为 404 类错误（端点回退的触发条件）
func (e *ResponseError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError 调用方入参不合法，永远不会发送到控制器
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unifi: invalid parameter %q: %s", e.Field, e.Message)
}

// isAuthRejected 判断错误是否为 "会话失效" 类响应
// 401 或 UniFi 特有的 api.err.LoginRequired 标记会话过期，
// 与 404、参数错误等区分开，只有前者触发重登录重试
func isAuthRejected(err error) bool {
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusUnauthorized ||
		respErr.Message == "api.err.LoginRequired"
}
