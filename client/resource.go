package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/validation"
)

// Resource 一个后端资源集合。Plural/Singular 为响应信封中的键名。
type Resource[T any] struct {
	Path     string
	Plural   string
	Singular string
}

func (r Resource[T]) itemPath(id string) string {
	return r.Path + "/" + url.PathEscape(id)
}

// List 读取整个集合 GET /{resource}
func (r Resource[T]) List(ctx context.Context, c *Client, params map[string]string) ([]T, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: r.Path, query: params})
	if err != nil {
		return nil, err
	}
	res, err := validation.DecodeList[T](c.validator, resp.body, r.Plural)
	if err != nil {
		return nil, asDecodeError(c, err)
	}
	return resolve(c, res, r.Path)
}

// Page 服务端筛选分页 GET /{resource}?page=&limit=&...，响应 {items, pagination}
func (r Resource[T]) Page(ctx context.Context, c *Client, params map[string]string) (models.Page[T], error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: r.Path, query: params})
	if err != nil {
		return models.Page[T]{}, err
	}
	res, err := validation.DecodePage[T](c.validator, resp.body, r.Plural)
	if err != nil {
		return models.Page[T]{}, asDecodeError(c, err)
	}
	return resolve(c, res, r.Path)
}

// Get 读取单条记录 GET /{resource}/{id}
func (r Resource[T]) Get(ctx context.Context, c *Client, id string) (T, error) {
	var zero T
	resp, err := c.do(ctx, request{method: http.MethodGet, path: r.itemPath(id)})
	if err != nil {
		return zero, err
	}
	res, err := validation.DecodeOne[T](c.validator, resp.body, r.Singular)
	if err != nil {
		return zero, asDecodeError(c, err)
	}
	return resolve(c, res, r.Path)
}

// Create POST /{resource} 或 POST /{resource}/{parentId}（按父资源嵌套）。
// 返回新记录与后端 msg；响应中没有记录时返回零值。
func (r Resource[T]) Create(ctx context.Context, c *Client, parentID string, payload any) (T, string, error) {
	path := r.Path
	if parentID != "" {
		path = r.itemPath(parentID)
	}
	return r.write(ctx, c, http.MethodPost, path, payload)
}

// Update PUT /{resource}/{id}
func (r Resource[T]) Update(ctx context.Context, c *Client, id string, payload any) (T, string, error) {
	return r.write(ctx, c, http.MethodPut, r.itemPath(id), payload)
}

// Delete DELETE /{resource}/{id}，响应可能是 {msg}、204 或空
func (r Resource[T]) Delete(ctx context.Context, c *Client, id string) (string, error) {
	resp, err := c.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id)})
	if err != nil {
		return "", err
	}
	return messageOf(resp.body), nil
}

func (r Resource[T]) write(ctx context.Context, c *Client, method, path string, payload any) (T, string, error) {
	var zero T
	resp, err := c.sendJSON(ctx, method, path, payload)
	if err != nil {
		return zero, "", err
	}
	msg := messageOf(resp.body)
	if !hasRecord(resp.body, r.Singular) {
		return zero, msg, nil
	}
	res, err := validation.DecodeOne[T](c.validator, resp.body, r.Singular)
	if err != nil {
		return zero, msg, asDecodeError(c, err)
	}
	data, err := resolve(c, res, r.Path)
	return data, msg, err
}

// hasRecord 写操作响应 {msg, <单数名>} 中是否带有记录
func hasRecord(body []byte, singular string) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return false
	}
	for _, key := range []string{singular, "data"} {
		if v := bytes.TrimSpace(obj[key]); len(v) > 0 && v[0] == '{' {
			return true
		}
	}
	return false
}
