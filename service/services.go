// Package service 各列表视图的控制器：经缓存读取后端集合，在本地筛选、统计、分页，
// 并提供删除确认流程和创建/更新代理。
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/text/message"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/mutation"
	"github.com/BerniceZTT/vet_admin/utils"
)

// Options 服务参数
type Options struct {
	PageSize    int
	MaxPageSize int
	Printer     *message.Printer
	Notifier    mutation.Notifier
	Now         func() time.Time
}

// Services 所有视图
type Services struct {
	Deps    *Deps
	Clinic  *ClinicService
	Mutator *mutation.Mutator
	views   map[string]View
}

// New 组装全部视图
func New(c *client.Client, qc *cache.Cache, opts Options) *Services {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Printer == nil {
		opts.Printer = utils.Printer("")
	}
	if opts.Notifier == nil {
		opts.Notifier = mutation.LogNotifier{}
	}

	flows := mutation.NewFlows(deleteConfigs(c, qc, opts))
	d := &Deps{
		Client:      c,
		Cache:       qc,
		Sessions:    NewSessions(flows),
		PageSize:    opts.PageSize,
		MaxPageSize: opts.MaxPageSize,
		Now:         opts.Now,
	}

	s := &Services{
		Deps:   d,
		Clinic: NewClinicService(d),
		Mutator: &mutation.Mutator{
			Cache:    qc,
			Notifier: opts.Notifier,
			Printer:  opts.Printer,
		},
		views: make(map[string]View),
	}
	for _, v := range []View{
		NewProductService(d),
		NewStockService(d),
		NewMovementService(d),
		NewLabExamService(d),
		NewSaleService(d),
		NewPatientService(d),
		NewAppointmentService(d),
		NewOwnerList(d),
		NewStaffList(d),
		NewGroomingList(d),
		NewPaymentMethodList(d),
	} {
		s.views[v.Name()] = v
	}
	return s
}

func deleteWith[T any](c *client.Client, r client.Resource[T]) mutation.DeleteFunc {
	return func(ctx context.Context, id string) (string, error) {
		return r.Delete(ctx, c, id)
	}
}

func deleteConfigs(c *client.Client, qc *cache.Cache, opts Options) map[string]mutation.DeleteConfig {
	cfg := func(resource string, del mutation.DeleteFunc) mutation.DeleteConfig {
		return mutation.DeleteConfig{
			Resource:    resource,
			Invalidates: related[resource],
			Delete:      del,
			Cache:       qc,
			Notifier:    opts.Notifier,
			Printer:     opts.Printer,
		}
	}
	products := cfg(ResourceProducts, deleteWith(c, client.Products))
	return map[string]mutation.DeleteConfig{
		ViewProducts:       products,
		ViewStock:          products,
		ViewLabExams:       cfg(ResourceLabExams, deleteWith(c, client.LabExams)),
		ViewSales:          cfg(ResourceSales, deleteWith(c, client.Sales)),
		ViewPatients:       cfg(ResourcePatients, deleteWith(c, client.Patients)),
		ViewAppointments:   cfg(ResourceAppointments, deleteWith(c, client.Appointments)),
		ViewOwners:         cfg(ResourceOwners, deleteWith(c, client.Owners)),
		ViewStaff:          cfg(ResourceStaff, deleteWith(c, client.Staff)),
		ViewGrooming:       cfg(ResourceGrooming, deleteWith(c, client.Grooming)),
		ViewPaymentMethods: cfg(ResourcePaymentMethods, deleteWith(c, client.PaymentMethods)),
	}
}

// View 按名称取视图
func (s *Services) View(name string) (View, bool) {
	v, ok := s.views[name]
	return v, ok
}

// ViewNames 所有视图名（排序）
func (s *Services) ViewNames() []string {
	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete 会话中某个视图的删除流程
func (s *Services) Delete(session, view string) (*mutation.DeleteController, bool) {
	return s.Deps.Sessions.Delete(session, view)
}

// HasDelete 视图是否支持删除流程
func (s *Services) HasDelete(view string) bool {
	return s.Deps.Sessions.HasDelete(view)
}

// MutationRequest 经网关代理的创建/更新
type MutationRequest struct {
	// Resource 资源名（client.MutablePaths 的键）
	Resource string
	Method   string
	// ID 更新时为记录 id，创建时为父资源 id（可为空）
	ID    string
	Body  json.RawMessage
	Label string
}

// Mutate 转发创建/更新，成功后失效该资源及相关资源
func (s *Services) Mutate(ctx context.Context, req MutationRequest) (client.MutationResult, mutation.Notice, error) {
	path, ok := client.MutablePaths[req.Resource]
	if !ok {
		return client.MutationResult{}, mutation.Notice{}, utils.CreateNotFoundError(req.Resource)
	}
	if req.ID != "" {
		path += "/" + url.PathEscape(req.ID)
	}

	kind := mutation.OpCreate
	if req.Method == http.MethodPut {
		kind = mutation.OpUpdate
	}
	resource := cacheResource(req.Resource)

	var result client.MutationResult
	notice, err := s.Mutator.Run(ctx, mutation.Op{
		Kind:        kind,
		Resource:    resource,
		Label:       req.Label,
		Invalidates: related[resource],
	}, func(ctx context.Context) (string, error) {
		res, err := s.Deps.Client.Mutate(ctx, req.Method, path, req.Body)
		result = res
		return res.Message, err
	})
	return result, notice, err
}

func cacheResource(name string) string {
	if name == "clinics" {
		return ResourceClinic
	}
	return name
}

// UploadKind 上传类型
type UploadKind string

const (
	UploadClinicLogo   UploadKind = "clinic-logo"
	UploadPatientPhoto UploadKind = "patient-photo"
	UploadStudy        UploadKind = "study"
)

// UploadRequest 上传请求
type UploadRequest struct {
	Kind      UploadKind
	PatientID string
	Title     string
	File      client.File
}

// Upload 上传文件，成功后失效对应资源
func (s *Services) Upload(ctx context.Context, req UploadRequest) (client.MutationResult, mutation.Notice, error) {
	c := s.Deps.Client
	resource := ResourcePatients
	if req.Kind == UploadClinicLogo {
		resource = ResourceClinic
	}

	var result client.MutationResult
	notice, err := s.Mutator.Run(ctx, mutation.Op{Kind: mutation.OpUpload, Resource: resource}, func(ctx context.Context) (string, error) {
		var err error
		switch req.Kind {
		case UploadClinicLogo:
			result, err = c.UploadClinicLogo(ctx, req.File)
		case UploadPatientPhoto:
			result, err = c.UploadPatientPhoto(ctx, req.PatientID, req.File)
		default:
			result, err = c.UploadStudy(ctx, req.PatientID, req.Title, req.File)
		}
		return result.Message, err
	})
	return result, notice, err
}
