package service

import (
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
)

// AppointmentStats 预约统计（全量）
type AppointmentStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Today    int            `json:"today"`
}

// AppointmentService 预约：搜索患宠/兽医/原因，状态，日期范围
type AppointmentService struct {
	*localView[models.Appointment]
}

// NewAppointmentService 创建预约视图
func NewAppointmentService(d *Deps) *AppointmentService {
	return &AppointmentService{&localView[models.Appointment]{
		deps:     d,
		name:     ViewAppointments,
		resource: client.Appointments,
		cacheKey: ResourceAppointments,
		predicate: func(f listing.FilterState, r listing.DateRange) listing.Predicate[models.Appointment] {
			return listing.And[models.Appointment](
				func(a models.Appointment) bool {
					return listing.MatchText(f.Search, a.PatientName, a.VetName, a.Reason)
				},
				func(a models.Appointment) bool { return listing.MatchCategory(f.Category, a.VetName) },
				func(a models.Appointment) bool { return listing.MatchBucket(f.Status, a.Status) },
				func(a models.Appointment) bool { return r.Contains(a.Date) },
			)
		},
		order: func(a, b models.Appointment) bool {
			return a.Date.Before(b.Date.Time)
		},
		stats: func(all, _ []models.Appointment, _ Query) any {
			today := models.NewDate(d.now()).Day()
			return AppointmentStats{
				Total: len(all),
				ByStatus: listing.CountBy(all, func(a models.Appointment) string { return a.Status },
					models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled),
				Today: listing.Count(all, func(a models.Appointment) bool { return a.Date.Day() == today }),
			}
		},
	}}
}
