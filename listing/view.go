package listing

import "sync"

// View 单个列表视图的状态：当前筛选条件和页码
type View struct {
	mu      sync.Mutex
	filters FilterState
	page    int
	perPage int
}

// NewView 创建视图，初始为中性筛选、第 1 页
func NewView(perPage int) *View {
	return &View{
		filters: FilterState{}.Normalize(),
		page:    1,
		perPage: perPage,
	}
}

// State 视图状态快照
type State struct {
	Filters FilterState `json:"filters"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// State 当前状态
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{Filters: v.filters, Page: v.page, PerPage: v.perPage}
}

// Derived 一次派生的结果
type Derived[T any] struct {
	Filters  FilterState
	Filtered []T
	Page     Paged[T]
}

// Input 一次派生的输入。Page 为 0 表示沿用当前页；PerPage 为 0 表示沿用当前每页条数。
type Input struct {
	Filters FilterState
	Page    int
	PerPage int
}

// Request 按"筛选变化重置为第 1 页"的规则确定本次请求的页码并保存，不做钳制。
// 用于服务端分页的视图，取回数据后再调用 Settle。
func (v *View) Request(in Input) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.requestLocked(in)
}

// Settle 写回按数据钳制后的页码
func (v *View) Settle(page int) {
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
}

func (v *View) requestLocked(in Input) State {
	filters := in.Filters.Normalize()
	page := v.page
	switch {
	case filters != v.filters:
		page = 1
	case in.Page > 0:
		page = in.Page
	}
	if in.PerPage > 0 && in.PerPage != v.perPage {
		v.perPage = in.PerPage
		page = 1
	}
	v.filters = filters
	v.page = page
	return State{Filters: filters, Page: page, PerPage: v.perPage}
}

// Derive 由 {筛选条件, 数据, 请求页码} 一次算出视图结果，并写回修正后的页码。
//
// 筛选条件变化时页码重置为 1，优先于请求的页码；随后按筛选结果钳制页码。
// build 把筛选条件转换为记录条件。
func Derive[T any](v *View, data []T, in Input, build func(FilterState) Predicate[T]) Derived[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := v.requestLocked(in)
	filtered := Filter(data, build(st.Filters))
	paged := Paginate(filtered, st.Page, st.PerPage)
	v.page = paged.Page

	return Derived[T]{Filters: st.Filters, Filtered: filtered, Page: paged}
}
