// Package validation 校验后端响应结构。
//
// 校验失败时默认不阻断调用方：Result 同时携带解码出的数据与诊断信息，
// 由调用方决定宽松（记录日志后继续使用数据）还是严格（返回错误）处理。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BerniceZTT/vet_admin/utils"
)

// Mode 校验模式
type Mode int

const (
	// Lenient 校验失败时记录诊断并返回未校验数据
	Lenient Mode = iota
	// Strict 校验失败时返回错误
	Strict
)

// Result 带标签的校验结果：OK 为 true 时 Data 已通过校验；
// 否则 Data 为尽力解码的数据，Diagnostic 描述不一致之处。
type Result[T any] struct {
	OK         bool
	Data       T
	Raw        json.RawMessage
	Diagnostic error
}

// Lenient 返回数据，不一致时只记录日志
func (r Result[T]) Lenient(resource string) T {
	if !r.OK && r.Diagnostic != nil {
		utils.LogValidationMismatch(resource, r.Diagnostic)
	}
	return r.Data
}

// Strict 不一致时返回诊断错误
func (r Result[T]) Strict() (T, error) {
	if !r.OK {
		return r.Data, r.Diagnostic
	}
	return r.Data, nil
}

// Resolve 按模式取值
func (r Result[T]) Resolve(mode Mode, resource string) (T, error) {
	if mode == Strict {
		return r.Strict()
	}
	return r.Lenient(resource), nil
}

// Validator 基于 struct tag 的结构校验器
type Validator struct {
	validate *validator.Validate
}

// New 创建校验器，错误信息中的字段名使用 json 名称
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Value 校验结构体、结构体指针或结构体切片
func (v *Validator) Value(value any) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return v.validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		var errs []error
		for i := 0; i < rv.Len(); i++ {
			if err := v.Value(rv.Index(i).Interface()); err != nil {
				errs = append(errs, fmt.Errorf("[%d]: %w", i, err))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

// Decode 解码并校验。只有完全无法解析（语法错误）时才返回 error；
// 字段类型不符或缺少必填字段时返回 OK=false 的 Result。
func Decode[T any](v *Validator, raw []byte) (Result[T], error) {
	res := Result[T]{Raw: raw}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return res, fmt.Errorf("decode: %w", err)
		}
		// 类型不符的字段被跳过，其余字段仍然可用
		res.Data = data
		res.Diagnostic = fmt.Errorf("decode: %w", err)
		return res, nil
	}

	res.Data = data
	if err := v.Value(data); err != nil {
		res.Diagnostic = err
		return res, nil
	}
	res.OK = true
	return res, nil
}
