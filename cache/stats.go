package cache

import (
	"sort"
	"time"
)

// Stats 缓存计数
type Stats struct {
	Entries       int   `json:"entries"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Shared        int64 `json:"shared"`
	Invalidations int64 `json:"invalidations"`
	Collected     int64 `json:"collected"`
}

// EntryInfo 单个条目的快照
type EntryInfo struct {
	Key       string    `json:"key"`
	Resource  string    `json:"resource"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
	Stale     bool      `json:"stale"`
	Observers int       `json:"observers"`
	Error     string    `json:"error,omitempty"`
}

// Stats 返回计数快照
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Peek 查看条目状态，不触发请求
func (c *Cache) Peek(key Key) (EntryInfo, bool) {
	id := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return EntryInfo{}, false
	}
	return c.infoLocked(id, e), true
}

// Entries 所有条目的快照，按键排序
func (c *Cache) Entries() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos := make([]EntryInfo, 0, len(c.entries))
	for id, e := range c.entries {
		infos = append(infos, c.infoLocked(id, e))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

func (c *Cache) infoLocked(id string, e *entry) EntryInfo {
	info := EntryInfo{
		Key:       id,
		Resource:  e.key.Resource,
		Status:    e.status(),
		UpdatedAt: e.updatedAt,
		Stale:     !c.freshLocked(e),
		Observers: e.observers,
	}
	if e.err != nil {
		info.Error = e.err.Error()
	}
	return info
}
