package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 后端调用失败的类别
type Kind string

const (
	// KindServer 后端返回了 4xx/5xx
	KindServer Kind = "server"
	// KindTransport 没有收到响应（断网、超时、DNS）
	KindTransport Kind = "transport"
	// KindDecode 响应无法识别
	KindDecode Kind = "decode"
	// KindRequest 请求未能构造（编码失败、文件过大），没有发往后端
	KindRequest Kind = "request"
)

// Error 后端调用的统一错误。Message 可直接展示给用户。
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend %s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus 网关返回给浏览器的状态码
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindServer:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusBadGateway
	case KindRequest:
		if e.Status > 0 {
			return e.Status
		}
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

// UserMessage 用户可见提示
func (e *Error) UserMessage() string {
	return e.Message
}

// Code 错误码
func (e *Error) Code() string {
	switch e.Kind {
	case KindServer:
		return "BACKEND_ERROR"
	case KindTransport:
		return "NETWORK_ERROR"
	case KindRequest:
		return "INVALID_REQUEST"
	}
	return "UNEXPECTED_RESPONSE"
}

// IsNotFound 后端返回 404
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindServer && e.Status == http.StatusNotFound
}

// IsKind 判断错误类别
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
