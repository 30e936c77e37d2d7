package mutation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/message"

	"github.com/BerniceZTT/vet_admin/utils"
)

// OpKind 写操作类型
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpUpload OpKind = "upload"
)

// Op 一次创建/更新/上传
type Op struct {
	Kind     OpKind
	Resource string
	// Label 用于成功提示的对象名称
	Label       string
	Invalidates []string
}

// Mutator 执行写操作，成功后失效相关缓存并发出提示；失败时只发出错误提示
type Mutator struct {
	Cache    Invalidator
	Notifier Notifier
	Printer  *message.Printer
}

// Run 执行 fn。fn 返回后端提示信息（可能为空）。
func (m *Mutator) Run(ctx context.Context, op Op, fn func(ctx context.Context) (string, error)) (Notice, error) {
	notifier := m.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	printer := m.Printer
	if printer == nil {
		printer = utils.Printer("")
	}

	msg, err := fn(context.WithoutCancel(ctx))
	if err != nil {
		text := printer.Sprintf(utils.MsgServerError)
		var statusErr utils.StatusError
		if errors.As(err, &statusErr) && statusErr.UserMessage() != "" {
			text = statusErr.UserMessage()
		}
		notice := NewNotice(NoticeError, text)
		notifier.Notify(ctx, notice)
		return notice, err
	}

	if m.Cache != nil {
		resources := append([]string{op.Resource}, op.Invalidates...)
		m.Cache.Invalidate(resources...)
	}
	if msg == "" {
		msg = successMessage(printer, op)
	}
	notice := NewNotice(NoticeSuccess, msg)
	notifier.Notify(ctx, notice)
	return notice, nil
}

func successMessage(p *message.Printer, op Op) string {
	label := op.Label
	if label == "" {
		label = op.Resource
	}
	switch op.Kind {
	case OpUpdate:
		return p.Sprintf(utils.MsgUpdateSuccess, label)
	case OpUpload:
		return p.Sprintf(utils.MsgUploadSuccess)
	}
	return p.Sprintf(utils.MsgCreateSuccess, label)
}

// Flows 按 (会话, 视图) 保存删除流程
type Flows struct {
	mu      sync.Mutex
	flows   map[string]*DeleteController
	configs map[string]DeleteConfig
}

// NewFlows configs 以视图名为键
func NewFlows(configs map[string]DeleteConfig) *Flows {
	return &Flows{
		flows:   make(map[string]*DeleteController),
		configs: configs,
	}
}

// Get 取得（必要时创建）会话中某个视图的删除流程；视图不支持删除时返回 false
func (f *Flows) Get(session, view string) (*DeleteController, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, ok := f.configs[view]
	if !ok {
		return nil, false
	}
	id := session + "|" + view
	d, ok := f.flows[id]
	if !ok {
		d = NewDeleteController(cfg)
		f.flows[id] = d
	}
	return d, true
}

// Supports 视图是否配置了删除流程，不创建流程
func (f *Flows) Supports(view string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.configs[view]
	return ok
}

// Views 支持删除的视图
func (f *Flows) Views() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	views := make([]string, 0, len(f.configs))
	for v := range f.configs {
		views = append(views, v)
	}
	return views
}

// Drop 移除会话的所有删除流程（进行中的保留）
func (f *Flows) Drop(session string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := session + "|"
	for id, d := range f.flows {
		if strings.HasPrefix(id, prefix) && d.Snapshot().State != StatePending {
			delete(f.flows, id)
		}
	}
}
