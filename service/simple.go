package service

import (
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
)

// SimpleStats 简单列表统计
type SimpleStats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Active   int `json:"active,omitempty"`
}

// SimpleList 只有搜索和分类筛选的列表（主人、员工、美容服务、付款方式）
type SimpleList[T any] struct {
	*localView[T]
}

// simpleFields 描述一个简单列表的可搜索字段、分类字段和可选的状态/日期字段
type simpleFields[T any] struct {
	text     func(T) []string
	category func(T) string
	status   func(T) string
	date     func(T) models.Date
	active   func(T) bool
}

func newSimpleList[T any](d *Deps, name, cacheKey string, resource client.Resource[T], fields simpleFields[T]) *SimpleList[T] {
	return &SimpleList[T]{&localView[T]{
		deps:     d,
		name:     name,
		resource: resource,
		cacheKey: cacheKey,
		predicate: func(f listing.FilterState, r listing.DateRange) listing.Predicate[T] {
			return func(item T) bool {
				if !listing.MatchText(f.Search, fields.text(item)...) {
					return false
				}
				if fields.category != nil && !listing.MatchCategory(f.Category, fields.category(item)) {
					return false
				}
				if fields.status != nil && !listing.MatchBucket(f.Status, fields.status(item)) {
					return false
				}
				if fields.date != nil && !r.Contains(fields.date(item)) {
					return false
				}
				return true
			}
		},
		stats: func(all, filtered []T, _ Query) any {
			st := SimpleStats{Total: len(all), Filtered: len(filtered)}
			if fields.active != nil {
				st.Active = listing.Count(all, fields.active)
			}
			return st
		},
	}}
}

// NewOwnerList 主人列表
func NewOwnerList(d *Deps) *SimpleList[models.Owner] {
	return newSimpleList(d, ViewOwners, ResourceOwners, client.Owners, simpleFields[models.Owner]{
		text: func(o models.Owner) []string { return []string{o.Name, o.NationalID, o.Phone, o.Email} },
	})
}

// NewStaffList 员工列表，分类为角色
func NewStaffList(d *Deps) *SimpleList[models.Staff] {
	return newSimpleList(d, ViewStaff, ResourceStaff, client.Staff, simpleFields[models.Staff]{
		text:     func(s models.Staff) []string { return []string{s.Name, s.Email, s.Phone} },
		category: func(s models.Staff) string { return string(s.Role) },
		active:   func(s models.Staff) bool { return s.Active },
	})
}

// NewGroomingList 美容服务列表
func NewGroomingList(d *Deps) *SimpleList[models.GroomingService] {
	return newSimpleList(d, ViewGrooming, ResourceGrooming, client.Grooming, simpleFields[models.GroomingService]{
		text:     func(g models.GroomingService) []string { return []string{g.PatientName, g.Service} },
		category: func(g models.GroomingService) string { return g.Service },
		status:   func(g models.GroomingService) string { return g.Status },
		date:     func(g models.GroomingService) models.Date { return g.Date },
	})
}

// NewPaymentMethodList 付款方式列表，分类为币种
func NewPaymentMethodList(d *Deps) *SimpleList[models.PaymentMethod] {
	return newSimpleList(d, ViewPaymentMethods, ResourcePaymentMethods, client.PaymentMethods, simpleFields[models.PaymentMethod]{
		text:     func(p models.PaymentMethod) []string { return []string{p.Name} },
		category: func(p models.PaymentMethod) string { return string(p.Currency) },
		active:   func(p models.PaymentMethod) bool { return p.Active },
	})
}
