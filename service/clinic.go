package service

import (
	"context"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/models"
)

// ClinicService 当前账号的诊所
type ClinicService struct {
	deps *Deps
}

// NewClinicService 创建诊所服务
func NewClinicService(d *Deps) *ClinicService {
	return &ClinicService{deps: d}
}

// Mine 读取当前诊所；尚未配置时返回 nil, nil
func (s *ClinicService) Mine(ctx context.Context) (*models.Clinic, error) {
	d := s.deps
	key := cache.NewKey(ResourceClinic, "mine")
	release := d.Cache.Observe(ctx, key)
	defer release()

	return cache.Query(ctx, d.Cache, key, func(ctx context.Context) (*models.Clinic, error) {
		return d.Client.MyClinic(ctx)
	})
}
