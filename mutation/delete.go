// Package mutation 写操作流程：删除确认状态机与创建/更新后的缓存失效。
package mutation

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/text/message"

	"github.com/BerniceZTT/vet_admin/utils"
)

// State 删除流程状态
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingConfirm State = "awaiting_confirm"
	StatePending         State = "pending"
)

var (
	// ErrPending 删除请求尚未返回
	ErrPending = errors.New("mutation: delete pending")
	// ErrNoTarget 没有待删除的对象
	ErrNoTarget = errors.New("mutation: no delete target")
)

// Target 待删除对象
type Target struct {
	ID          string `json:"id" binding:"required"`
	DisplayName string `json:"displayName"`
}

// Invalidator 按资源失效缓存（cache.Cache 实现）
type Invalidator interface {
	Invalidate(resources ...string) int
}

// DeleteFunc 发起远程删除，返回后端提示信息（可能为空）
type DeleteFunc func(ctx context.Context, id string) (string, error)

// DeleteConfig 删除流程配置
type DeleteConfig struct {
	// Resource 被删除的资源
	Resource string
	// Invalidates 删除成功后需要失效的资源，Resource 总会包含在内
	Invalidates []string
	Delete      DeleteFunc
	Cache       Invalidator
	Notifier    Notifier
	Printer     *message.Printer
}

// DeleteController 单个视图的删除确认流程
//
//	Idle -RequestDelete-> AwaitingConfirm -Confirm-> Pending -成功-> Idle
//	Pending -失败-> AwaitingConfirm
//	AwaitingConfirm -Cancel-> Idle
type DeleteController struct {
	mu     sync.Mutex
	cfg    DeleteConfig
	state  State
	target *Target
	notice *Notice
}

// NewDeleteController 创建删除流程
func NewDeleteController(cfg DeleteConfig) *DeleteController {
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{}
	}
	if cfg.Printer == nil {
		cfg.Printer = utils.Printer("")
	}
	return &DeleteController{cfg: cfg, state: StateIdle}
}

// RequestDelete 选中待删除对象并打开确认。删除进行中时忽略，返回 false。
func (d *DeleteController) RequestDelete(target Target) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StatePending || target.ID == "" {
		return false
	}
	d.target = &target
	d.state = StateAwaitingConfirm
	d.notice = nil
	return true
}

// Confirm 对选中的对象发起删除。
// 删除进行中返回 ErrPending 且不发起新请求；失败时回到待确认状态并保留对象以便重试。
func (d *DeleteController) Confirm(ctx context.Context) error {
	d.mu.Lock()
	switch {
	case d.state == StatePending:
		d.mu.Unlock()
		return ErrPending
	case d.target == nil:
		d.mu.Unlock()
		return ErrNoTarget
	}
	target := *d.target
	d.state = StatePending
	d.mu.Unlock()

	// 删除一旦发出就不随调用方取消
	msg, err := d.cfg.Delete(context.WithoutCancel(ctx), target.ID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateAwaitingConfirm
		notice := NewNotice(NoticeError, errorMessage(d.cfg.Printer, err, target))
		d.notice = &notice
		d.cfg.Notifier.Notify(ctx, notice)
		utils.Logger.Warn().Err(err).
			Str("resource", d.cfg.Resource).
			Str("id", target.ID).
			Msg("删除失败")
		return err
	}

	if d.cfg.Cache != nil {
		d.cfg.Cache.Invalidate(d.invalidates()...)
	}
	if msg == "" {
		msg = d.cfg.Printer.Sprintf(utils.MsgDeleteSuccess, label(target))
	}
	notice := NewNotice(NoticeSuccess, msg)
	d.notice = &notice
	d.cfg.Notifier.Notify(ctx, notice)
	d.target = nil
	d.state = StateIdle

	utils.Logger.Info().
		Str("resource", d.cfg.Resource).
		Str("id", target.ID).
		Msg("删除成功")
	return nil
}

// Cancel 关闭确认。删除进行中不允许关闭，返回 false。
func (d *DeleteController) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StatePending {
		return false
	}
	d.target = nil
	d.state = StateIdle
	return true
}

// Snapshot 删除流程快照
type Snapshot struct {
	Resource string  `json:"resource"`
	State    State   `json:"state"`
	Target   *Target `json:"target"`
	// DialogOpen 确认框打开当且仅当存在待删除对象
	DialogOpen bool `json:"dialogOpen"`
	// ControlsDisabled 删除进行中禁用确认/取消
	ControlsDisabled bool    `json:"controlsDisabled"`
	Notice           *Notice `json:"notice,omitempty"`
}

// Snapshot 当前状态
func (d *DeleteController) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		Resource:         d.cfg.Resource,
		State:            d.state,
		DialogOpen:       d.target != nil,
		ControlsDisabled: d.state == StatePending,
	}
	if d.target != nil {
		t := *d.target
		s.Target = &t
	}
	if d.notice != nil {
		n := *d.notice
		s.Notice = &n
	}
	return s
}

func (d *DeleteController) invalidates() []string {
	resources := []string{d.cfg.Resource}
	for _, r := range d.cfg.Invalidates {
		if r != d.cfg.Resource {
			resources = append(resources, r)
		}
	}
	return resources
}

func label(t Target) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.ID
}

// errorMessage 优先使用后端返回的提示
func errorMessage(p *message.Printer, err error, target Target) string {
	var statusErr utils.StatusError
	if errors.As(err, &statusErr) && statusErr.UserMessage() != "" {
		return statusErr.UserMessage()
	}
	return p.Sprintf(utils.MsgDeleteFailed, label(target))
}
