package service

import (
	"strings"
	"sync"
	"time"

	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/mutation"
)

// Sessions 每个会话（登录用户）各自的视图状态和删除流程，视图之间不共享
type Sessions struct {
	mu       sync.Mutex
	views    map[string]*listing.View
	lastSeen map[string]time.Time
	flows    *mutation.Flows
	now      func() time.Time
}

// NewSessions 创建会话存储
func NewSessions(flows *mutation.Flows) *Sessions {
	return &Sessions{
		views:    make(map[string]*listing.View),
		lastSeen: make(map[string]time.Time),
		flows:    flows,
		now:      time.Now,
	}
}

// View 取得（必要时创建）会话中的视图状态
func (s *Sessions) View(session, name string, perPage int) *listing.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen[session] = s.now()
	id := session + "|" + name
	v, ok := s.views[id]
	if !ok {
		v = listing.NewView(perPage)
		s.views[id] = v
	}
	return v
}

// Delete 会话中某个视图的删除流程
func (s *Sessions) Delete(session, view string) (*mutation.DeleteController, bool) {
	s.mu.Lock()
	s.lastSeen[session] = s.now()
	s.mu.Unlock()

	if s.flows == nil {
		return nil, false
	}
	return s.flows.Get(session, view)
}

// HasDelete 视图是否支持删除流程
func (s *Sessions) HasDelete(view string) bool {
	return s.flows != nil && s.flows.Supports(view)
}

// Sweep 清理空闲超过 maxIdle 的会话，返回清理数量
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for session, seen := range s.lastSeen {
		if now.Sub(seen) < maxIdle {
			continue
		}
		prefix := session + "|"
		for id := range s.views {
			if strings.HasPrefix(id, prefix) {
				delete(s.views, id)
			}
		}
		if s.flows != nil {
			s.flows.Drop(session)
		}
		delete(s.lastSeen, session)
		removed++
	}
	return removed
}

// Len 活跃会话数
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastSeen)
}
