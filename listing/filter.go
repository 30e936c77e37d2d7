// Package listing 列表视图的本地派生：筛选、统计、分页。
//
// 包内函数都是纯函数，不修改输入切片。
package listing

import (
	"fmt"
	"strings"

	"github.com/BerniceZTT/vet_admin/models"
)

// All 分类/状态筛选的"全部"取值
const All = "all"

// Predicate 记录筛选条件
type Predicate[T any] func(T) bool

// And 组合多个条件，全部满足才为 true；nil 条件忽略
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, pred := range preds {
			if pred != nil && !pred(item) {
				return false
			}
		}
		return true
	}
}

// Filter 返回满足条件的新切片，保持原有顺序
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// MatchText 不区分大小写的子串匹配，任一字段命中即可；搜索词为空时恒为 true
func MatchText(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MatchCategory 分类精确匹配，筛选值为 all 或空时恒为 true
func MatchCategory(filter, value string) bool {
	if filter == "" || filter == All {
		return true
	}
	return filter == value
}

// MatchBucket 把记录归类后与所选分组比较
func MatchBucket(filter, bucket string) bool {
	return MatchCategory(filter, bucket)
}

// DateRange 闭区间日期范围，按天比较；空边界表示该侧不限
type DateRange struct {
	From string
	To   string
}

// ParseDateRange 解析 YYYY-MM-DD（或 RFC3339）格式的起止日期
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return DateRange{}, fmt.Errorf("dateFrom: %w", err)
		}
		r.From = d.Day()
	}
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return DateRange{}, fmt.Errorf("dateTo: %w", err)
		}
		r.To = d.Day()
	}
	return r, nil
}

// Unbounded 两侧都不限
func (r DateRange) Unbounded() bool {
	return r.From == "" && r.To == ""
}

// Contains 日期是否落在范围内（含边界）。范围有界时，没有日期的记录不匹配。
func (r DateRange) Contains(d models.Date) bool {
	if r.Unbounded() {
		return true
	}
	day := d.Day()
	if day == "" {
		return false
	}
	if r.From != "" && day < r.From {
		return false
	}
	if r.To != "" && day > r.To {
		return false
	}
	return true
}

// FilterState 视图的筛选条件快照
type FilterState struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Status   string `json:"status"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

// Normalize 去除空白，分类和状态的空值统一为 all
func (f FilterState) Normalize() FilterState {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	f.Status = strings.TrimSpace(f.Status)
	f.DateFrom = strings.TrimSpace(f.DateFrom)
	f.DateTo = strings.TrimSpace(f.DateTo)
	if f.Category == "" {
		f.Category = All
	}
	if f.Status == "" {
		f.Status = All
	}
	return f
}

// Neutral 是否不做任何筛选
func (f FilterState) Neutral() bool {
	return f.Normalize() == FilterState{Category: All, Status: All}
}

// Range 日期范围
func (f FilterState) Range() (DateRange, error) {
	return ParseDateRange(f.DateFrom, f.DateTo)
}
