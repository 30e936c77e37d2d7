package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout 纯日期格式
const DateLayout = "2006-01-02"

// Date 后端日期字段，兼容 "2006-01-02" 与 RFC3339 两种格式
type Date struct {
	time.Time
}

// NewDate 构造日期
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate 解析日期字符串
func ParseDate(value string) (Date, error) {
	if value == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return Date{Time: t}, nil
}

// UnmarshalJSON 实现 json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Day 返回日期部分（YYYY-MM-DD）
func (d Date) Day() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(DateLayout)
}
