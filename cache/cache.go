// Package cache 实现按查询键缓存后端集合的查询缓存。
//
// 同一个键同时只有一次有效的在途请求（singleflight 合并）。
// 失效会递增该键的代数：失效之后的读取一定发起新的请求，
// 失效之前发起的请求返回后不会写回缓存。
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BerniceZTT/vet_admin/utils"
)

// Status 缓存条目状态
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusError    Status = "error"
)

// Key 查询键：作用域（会话）+ 资源名 + 参数
type Key struct {
	Scope    string
	Resource string
	Params   []string
}

// NewKey 创建不带作用域的查询键，作用域在查询时从 context 中补全
func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

// String 键的唯一字符串表示
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Scope)
	b.WriteByte('|')
	b.WriteString(k.Resource)
	for _, p := range k.Params {
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}

type scopeKey struct{}

// WithScope 把会话作用域写入 context
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom 读取会话作用域
func ScopeFrom(ctx context.Context) string {
	scope, _ := ctx.Value(scopeKey{}).(string)
	return scope
}

// Options 缓存参数
type Options struct {
	// StaleTime 数据保持新鲜的时长
	StaleTime time.Duration
	// GCTime 没有观察者之后条目保留的时长
	GCTime time.Duration
	// Now 时钟，测试中可替换
	Now func() time.Time
}

type entry struct {
	key         Key
	data        any
	hasData     bool
	err         error
	inflight    int
	updatedAt   time.Time
	invalidated bool
	generation  uint64
	observers   int
	releasedAt  time.Time
}

// Cache 查询缓存
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	opts    Options
	stats   Stats
}

// New 创建缓存
func New(opts Options) *Cache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		entries: make(map[string]*entry),
		opts:    opts,
	}
}

// FetchFunc 从后端读取数据
type FetchFunc func(ctx context.Context) (any, error)

// Fetch 读取键对应的数据：新鲜则直接返回，否则发起（或加入）在途请求
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	if key.Scope == "" {
		key.Scope = ScopeFrom(ctx)
	}
	id := key.String()

	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key}
		c.entries[id] = e
	}
	if c.freshLocked(e) {
		c.stats.Hits++
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	gen := e.generation
	e.inflight++
	c.mu.Unlock()

	// 合并的请求不随单个调用方取消
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(id+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		return fn(flightCtx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	e.inflight--
	c.stats.Misses++
	if shared {
		c.stats.Shared++
	}

	current, ok := c.entries[id]
	if !ok || current.generation != gen {
		// 请求期间发生了失效或回收，结果不写回
		utils.Logger.Debug().Str("key", id).Msg("丢弃失效前发起的查询结果")
		return v, err
	}
	if err != nil {
		current.err = err
		return nil, err
	}
	current.data = v
	current.hasData = true
	current.err = nil
	current.updatedAt = c.opts.Now()
	current.invalidated = false
	return v, nil
}

func (e *entry) status() Status {
	switch {
	case e.inflight > 0:
		return StatusFetching
	case e.err != nil:
		return StatusError
	}
	return StatusIdle
}

func (c *Cache) freshLocked(e *entry) bool {
	if !e.hasData || e.invalidated {
		return false
	}
	if c.opts.StaleTime <= 0 {
		return false
	}
	return c.opts.Now().Sub(e.updatedAt) < c.opts.StaleTime
}

// ErrTypeMismatch 同一个键下缓存的值与请求的类型不一致，通常是两个视图误用了同一个缓存键
var ErrTypeMismatch = errors.New("cache: cached value type mismatch")

// Query 类型化的 Fetch
func Query[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		utils.Logger.Error().
			Str("key", key.String()).
			Str("cached", fmt.Sprintf("%T", v)).
			Str("want", fmt.Sprintf("%T", typed)).
			Msg("缓存值类型不一致")
		return typed, fmt.Errorf("%w: key %s holds %T, want %T", ErrTypeMismatch, key, v, typed)
	}
	return typed, nil
}

// Invalidate 把所有作用域下属于这些资源的键标记为过期，返回受影响的条目数
func (c *Cache) Invalidate(resources ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, e := range c.entries {
		for _, resource := range resources {
			if e.key.Resource == resource {
				e.invalidated = true
				e.generation++
				count++
				break
			}
		}
	}
	c.stats.Invalidations += int64(count)

	utils.Logger.Debug().Strs("resources", resources).Int("entries", count).Msg("缓存失效")
	return count
}

// Observe 登记一个观察者（视图挂载），返回的函数用于注销（视图卸载）
func (c *Cache) Observe(ctx context.Context, key Key) func() {
	if key.Scope == "" {
		key.Scope = ScopeFrom(ctx)
	}
	id := key.String()

	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key}
		c.entries[id] = e
	}
	e.observers++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e.observers > 0 {
				e.observers--
			}
			if e.observers == 0 {
				e.releasedAt = c.opts.Now()
			}
		})
	}
}

// Sweep 回收没有观察者且超过保留时长的条目，返回回收数量
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	removed := 0
	for id, e := range c.entries {
		if e.observers > 0 || e.inflight > 0 {
			continue
		}
		since := e.releasedAt
		if since.IsZero() || e.updatedAt.After(since) {
			since = e.updatedAt
		}
		if now.Sub(since) >= c.opts.GCTime {
			delete(c.entries, id)
			removed++
		}
	}
	c.stats.Collected += int64(removed)
	return removed
}

// Run 定期回收，直到 ctx 结束
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				utils.Logger.Debug().Int("removed", removed).Msg("缓存回收")
			}
		}
	}
}
