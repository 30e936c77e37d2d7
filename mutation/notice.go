package mutation

import (
	"context"
	"sync"
	"time"

	"github.com/BerniceZTT/vet_admin/utils"
)

// NoticeKind 提示类型
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice 一次写操作结束后给用户的提示
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// NewNotice 创建提示
func NewNotice(kind NoticeKind, msg string) Notice {
	return Notice{Kind: kind, Message: msg, At: time.Now()}
}

// Notifier 接收提示
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// LogNotifier 只写日志
type LogNotifier struct{}

// Notify 实现 Notifier
func (LogNotifier) Notify(_ context.Context, n Notice) {
	event := utils.Logger.Info()
	if n.Kind == NoticeError {
		event = utils.Logger.Warn()
	}
	event.Str("kind", string(n.Kind)).Msg(n.Message)
}

// Recorder 记录所有提示，用于测试和会话内回显
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify 实现 Notifier
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// Notices 已记录的提示
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last 最近一条提示
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
