// Package client 诊所后端 REST 接口的客户端。
//
// 所有方法都把失败归一化为 *Error：后端错误携带后端的 msg，
// 传输错误使用本地化的"网络错误"提示。不做自动重试。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/utils"
	"github.com/BerniceZTT/vet_admin/validation"
)

// 响应体读取上限
const maxBodySize = 32 << 20

// Client 后端客户端
type Client struct {
	baseURL   string
	http      *http.Client
	printer   *message.Printer
	validator *validation.Validator
	mode      validation.Mode
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout 请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPrinter 用户提示使用的语言
func WithPrinter(p *message.Printer) Option {
	return func(c *Client) {
		if p != nil {
			c.printer = p
		}
	}
}

// WithValidator 替换响应校验器
func WithValidator(v *validation.Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithStrict 响应结构不符时返回错误而不是记录日志后继续
func WithStrict(strict bool) Option {
	return func(c *Client) {
		if strict {
			c.mode = validation.Strict
		} else {
			c.mode = validation.Lenient
		}
	}
}

// New 创建客户端
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
		printer:   utils.Printer(""),
		validator: validation.New(),
		mode:      validation.Lenient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenKey struct{}

// WithToken 把用户的 Bearer token 写入 context，请求后端时转发
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom 读取 token
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// request 一次后端请求
type request struct {
	method      string
	path        string
	query       map[string]string
	body        io.Reader
	contentType string
}

// response 后端原始响应
type response struct {
	status int
	body   []byte
}

func (c *Client) endpoint(path string, query map[string]string) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return u
	}
	values := url.Values{}
	for k, v := range query {
		if v != "" {
			values.Set(k, v)
		}
	}
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// do 发送请求，4xx/5xx 和传输失败都转换为 *Error
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	target := c.endpoint(r.path, r.query)

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, c.requestError(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		utils.LogBackendCall(r.method, target, 0, time.Since(start), err)
		return nil, &Error{Kind: KindTransport, Message: c.printer.Sprintf(utils.MsgNetworkError), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	utils.LogBackendCall(r.method, target, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: c.printer.Sprintf(utils.MsgNetworkError), Cause: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.serverError(resp.StatusCode, body)
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

// serverError 取后端 {msg} 作为提示，缺省时使用通用提示
func (c *Client) serverError(status int, body []byte) *Error {
	var envelope models.ErrorEnvelope
	_ = json.Unmarshal(body, &envelope)

	msg := strings.TrimSpace(envelope.Msg)
	if msg == "" {
		msg = strings.TrimSpace(envelope.Message)
	}
	if msg == "" {
		msg = c.printer.Sprintf(utils.MsgServerError)
	}
	return &Error{
		Kind:    KindServer,
		Status:  status,
		Message: msg,
		Cause:   fmt.Errorf("status %d", status),
	}
}

func (c *Client) decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: c.printer.Sprintf(utils.MsgUnexpectedResponse), Cause: err}
}

func (c *Client) requestError(status int, err error) *Error {
	return &Error{Kind: KindRequest, Status: status, Message: c.printer.Sprintf(utils.MsgInvalidRequest), Cause: err}
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, c.requestError(0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, request{method: method, path: path, body: body, contentType: "application/json"})
}

// MutationResult 写操作的原始结果
type MutationResult struct {
	Status int
	// Message 后端返回的 msg
	Message string
	Body    json.RawMessage
}

// Mutate 原样转发一次写操作（POST/PUT/DELETE），返回后端的 msg 和响应体
func (c *Client) Mutate(ctx context.Context, method, path string, payload json.RawMessage) (MutationResult, error) {
	var body io.Reader
	if len(payload) > 0 {
		body = bytes.NewReader(payload)
	}
	resp, err := c.do(ctx, request{method: method, path: path, body: body, contentType: "application/json"})
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Status: resp.status, Message: messageOf(resp.body), Body: resp.body}, nil
}

// messageOf 读取 {msg}；204 或空响应返回空串
func messageOf(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return ""
	}
	var envelope models.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Msg != "" {
		return envelope.Msg
	}
	return envelope.Message
}

// MyClinic 当前账号的诊所。诊所尚未配置（404）时返回 nil, nil。
func (c *Client) MyClinic(ctx context.Context) (*models.Clinic, error) {
	clinic, err := Clinics.Get(ctx, c, "mine")
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

// resolve 按客户端的校验模式取值，严格模式下结构不符视为解码错误
func resolve[T any](c *Client, res validation.Result[T], resource string) (T, error) {
	data, err := res.Resolve(c.mode, resource)
	if err != nil {
		return data, c.decodeError(err)
	}
	return data, nil
}

// asDecodeError 信封无法识别或 JSON 语法错误
func asDecodeError(c *Client, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return c.decodeError(err)
}
