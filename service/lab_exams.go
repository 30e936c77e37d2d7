package service

import (
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
)

// LabExamStats 检验统计（全量）
type LabExamStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// LabExamService 实验室检验：搜索、检验类型、状态、日期范围
type LabExamService struct {
	*localView[models.LabExam]
}

// NewLabExamService 创建检验视图
func NewLabExamService(d *Deps) *LabExamService {
	return &LabExamService{&localView[models.LabExam]{
		deps:     d,
		name:     ViewLabExams,
		resource: client.LabExams,
		cacheKey: ResourceLabExams,
		predicate: func(f listing.FilterState, r listing.DateRange) listing.Predicate[models.LabExam] {
			return listing.And[models.LabExam](
				func(e models.LabExam) bool {
					return listing.MatchText(f.Search, e.Name, e.PatientName, e.ExamType)
				},
				func(e models.LabExam) bool { return listing.MatchCategory(f.Category, e.ExamType) },
				func(e models.LabExam) bool { return listing.MatchBucket(f.Status, labExamStatus(e)) },
				func(e models.LabExam) bool { return r.Contains(e.Date) },
			)
		},
		stats: func(all, _ []models.LabExam, _ Query) any {
			counts := listing.CountBy(all, labExamStatus,
				models.LabExamPending, models.LabExamInProgress, models.LabExamCompleted)
			return LabExamStats{
				Total:      len(all),
				Pending:    counts[models.LabExamPending],
				InProgress: counts[models.LabExamInProgress],
				Completed:  counts[models.LabExamCompleted],
			}
		},
	}}
}

// 没有状态的检验视为待处理
func labExamStatus(e models.LabExam) string {
	if e.Status == "" {
		return models.LabExamPending
	}
	return e.Status
}
