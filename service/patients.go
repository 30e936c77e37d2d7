package service

import (
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
)

// PatientStats 患宠统计（全量）
type PatientStats struct {
	Total     int `json:"total"`
	Caninos   int `json:"caninos"`
	Felinos   int `json:"felinos"`
	ThisMonth int `json:"thisMonth"`
}

// PatientService 患宠：搜索名字/主人/品种，按物种筛选
type PatientService struct {
	*localView[models.Patient]
}

// NewPatientService 创建患宠视图
func NewPatientService(d *Deps) *PatientService {
	return &PatientService{&localView[models.Patient]{
		deps:     d,
		name:     ViewPatients,
		resource: client.Patients,
		cacheKey: ResourcePatients,
		predicate: func(f listing.FilterState, r listing.DateRange) listing.Predicate[models.Patient] {
			return listing.And[models.Patient](
				func(p models.Patient) bool { return listing.MatchText(f.Search, p.Name, p.OwnerName, p.Breed) },
				func(p models.Patient) bool { return listing.MatchCategory(f.Category, p.Species) },
				func(p models.Patient) bool { return r.Contains(p.CreatedAt) },
			)
		},
		stats: func(all, _ []models.Patient, _ Query) any {
			now := d.now()
			return PatientStats{
				Total:   len(all),
				Caninos: listing.Count(all, func(p models.Patient) bool { return p.Species == models.SpeciesCanine }),
				Felinos: listing.Count(all, func(p models.Patient) bool { return p.Species == models.SpeciesFeline }),
				ThisMonth: listing.Count(all, func(p models.Patient) bool {
					return !p.CreatedAt.IsZero() &&
						p.CreatedAt.Year() == now.Year() && p.CreatedAt.Month() == now.Month()
				}),
			}
		},
	}}
}
