package service

import (
	"context"
	"sort"
	"time"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/utils"
)

// Deps 各视图共享的依赖
type Deps struct {
	Client      *client.Client
	Cache       *cache.Cache
	Sessions    *Sessions
	PageSize    int
	MaxPageSize int
	// Now 时钟，测试中可替换
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Query 一次视图请求。Page/Limit 为 0 表示沿用会话中的当前值。
type Query struct {
	Filters listing.FilterState
	Page    int
	Limit   int
	// Convert 是否显式换算 Bs 金额
	Convert bool
}

// ViewResult 视图响应
type ViewResult[T any] struct {
	Items      []T                 `json:"items"`
	Stats      any                 `json:"stats"`
	Filters    listing.FilterState `json:"filters"`
	Pagination listing.PageInfo    `json:"pagination"`
}

// View 一个列表视图
type View interface {
	Name() string
	Load(ctx context.Context, session string, q Query) (any, error)
}

// localView 全量读取、本地筛选分页的视图
type localView[T any] struct {
	deps     *Deps
	name     string
	resource client.Resource[T]
	// cacheKey 缓存资源名，读同一集合的视图共享
	cacheKey  string
	predicate func(f listing.FilterState, r listing.DateRange) listing.Predicate[T]
	// stats 同时拿到全量与筛选后的数据，由视图决定统计范围
	stats func(all, filtered []T, q Query) any
	// order 对全量数据排序后再筛选（可选）
	order func(a, b T) bool
}

func (v *localView[T]) Name() string { return v.name }

func (v *localView[T]) Load(ctx context.Context, session string, q Query) (any, error) {
	return v.List(ctx, session, q)
}

// fetch 经缓存读取全量集合
func (v *localView[T]) fetch(ctx context.Context) ([]T, error) {
	d := v.deps
	key := cache.NewKey(v.cacheKey)
	release := d.Cache.Observe(ctx, key)
	defer release()

	return cache.Query(ctx, d.Cache, key, func(ctx context.Context) ([]T, error) {
		return v.resource.List(ctx, d.Client, nil)
	})
}

// List 读取、筛选、统计、分页
func (v *localView[T]) List(ctx context.Context, session string, q Query) (*ViewResult[T], error) {
	d := v.deps
	dateRange, err := q.Filters.Range()
	if err != nil {
		return nil, utils.CreateBadRequestError(err.Error())
	}

	data, err := v.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if v.order != nil {
		data = append([]T(nil), data...)
		sort.SliceStable(data, func(i, j int) bool { return v.order(data[i], data[j]) })
	}

	view := d.Sessions.View(session, v.name, d.PageSize)
	derived := listing.Derive(view, data, listing.Input{
		Filters: q.Filters,
		Page:    q.Page,
		PerPage: perPage(d, q.Limit),
	}, func(f listing.FilterState) listing.Predicate[T] {
		return v.predicate(f, dateRange)
	})

	var stats any
	if v.stats != nil {
		stats = v.stats(data, derived.Filtered, q)
	}

	return &ViewResult[T]{
		Items:      derived.Page.Items,
		Stats:      stats,
		Filters:    derived.Filters,
		Pagination: derived.Page.PageInfo,
	}, nil
}

func perPage(d *Deps, limit int) int {
	if limit <= 0 {
		return 0
	}
	return listing.NormalizePerPage(limit, d.PageSize, d.MaxPageSize)
}

// paramsKey 查询参数按键排序后作为缓存键参数
func paramsKey(params map[string]string) []string {
	out := make([]string, 0, len(params))
	for k, v := range params {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
