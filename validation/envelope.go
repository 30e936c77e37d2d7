package validation

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/BerniceZTT/vet_admin/models"
)

// ErrUnknownEnvelope 响应不符合任何已知的包装格式
var ErrUnknownEnvelope = errors.New("validation: unknown response envelope")

// 后端各接口的列表包装并不统一：{<复数名>: [...]}、{items: [...]}、{data: [...]} 或裸数组
var fallbackListKeys = []string{"items", "data"}

// DecodeList 解码列表响应，先尝试 primary 键，再依次回退
func DecodeList[T any](v *Validator, body []byte, primary string) (Result[[]T], error) {
	raw, err := listPayload(body, primary)
	if err != nil {
		return Result[[]T]{Raw: body}, err
	}
	res, err := Decode[[]T](v, raw)
	if err != nil {
		return res, err
	}
	if res.Data == nil {
		res.Data = []T{}
	}
	return res, nil
}

// DecodeOne 解码单条记录响应：{<单数名>: {...}}，回退到 {data: {...}} 或裸对象
func DecodeOne[T any](v *Validator, body []byte, singular string) (Result[T], error) {
	raw, err := objectPayload(body, singular)
	if err != nil {
		return Result[T]{Raw: body}, err
	}
	return Decode[T](v, raw)
}

// DecodePage 解码服务端分页响应 {items, pagination}。
// 缺少 pagination 时按单页处理。
func DecodePage[T any](v *Validator, body []byte, primary string) (Result[models.Page[T]], error) {
	items, err := DecodeList[T](v, body, primary)
	if err != nil {
		return Result[models.Page[T]]{Raw: body}, err
	}

	page := models.Page[T]{Items: items.Data}
	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		_ = json.Unmarshal(body, &envelope)
	}
	if envelope.Pagination != nil {
		page.Pagination = *envelope.Pagination
	} else {
		page.Pagination = models.Pagination{Page: 1, Limit: len(items.Data), Total: len(items.Data), Pages: 1}
	}

	return Result[models.Page[T]]{
		OK:         items.OK,
		Data:       page,
		Raw:        body,
		Diagnostic: items.Diagnostic,
	}, nil
}

func listPayload(body []byte, primary string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnknownEnvelope
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}
	if trimmed[0] != '{' {
		return nil, ErrUnknownEnvelope
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}

	keys := append([]string{primary}, fallbackListKeys...)
	for _, key := range keys {
		value, ok := obj[key]
		if !ok {
			continue
		}
		value = bytes.TrimSpace(value)
		if bytes.Equal(value, []byte("null")) {
			return json.RawMessage("[]"), nil
		}
		if len(value) > 0 && value[0] == '[' {
			return value, nil
		}
	}
	return nil, ErrUnknownEnvelope
}

func objectPayload(body []byte, singular string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrUnknownEnvelope
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	for _, key := range []string{singular, "data"} {
		value := bytes.TrimSpace(obj[key])
		if len(value) > 0 && value[0] == '{' {
			return value, nil
		}
	}
	// 裸对象
	return trimmed, nil
}
