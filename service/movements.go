package service

import (
	"context"
	"strconv"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/utils"
)

// MovementStats 当前页的出入库统计
type MovementStats struct {
	In          int `json:"in"`
	Out         int `json:"out"`
	Adjustments int `json:"adjustments"`
	Net         int `json:"net"`
}

// MovementService 库存变动：类型和日期由后端筛选分页，搜索只作用于当前页
type MovementService struct {
	deps *Deps
}

// NewMovementService 创建库存变动视图
func NewMovementService(d *Deps) *MovementService {
	return &MovementService{deps: d}
}

// Name 视图名
func (s *MovementService) Name() string { return ViewMovements }

// Load 实现 View
func (s *MovementService) Load(ctx context.Context, session string, q Query) (any, error) {
	return s.List(ctx, session, q)
}

// List 读取一页库存变动。
// 页码规则与本地分页视图相同：筛选变化回到第 1 页，超过后端总页数时取最后一页。
func (s *MovementService) List(ctx context.Context, session string, q Query) (*ViewResult[models.Movement], error) {
	d := s.deps
	if _, err := q.Filters.Range(); err != nil {
		return nil, utils.CreateBadRequestError(err.Error())
	}

	view := d.Sessions.View(session, ViewMovements, d.PageSize)
	st := view.Request(listing.Input{Filters: q.Filters, Page: q.Page, PerPage: perPage(d, q.Limit)})

	page, err := s.fetch(ctx, st, st.Page)
	if err != nil {
		return nil, err
	}
	pages := page.Pagination.Pages
	if pages < 1 {
		pages = 1
	}
	if clamped := listing.ClampPage(st.Page, pages); clamped != st.Page {
		page, err = s.fetch(ctx, st, clamped)
		if err != nil {
			return nil, err
		}
		st.Page = clamped
	}
	view.Settle(st.Page)

	items := listing.Filter(page.Items, func(m models.Movement) bool {
		return listing.MatchText(st.Filters.Search, m.ProductName, m.Reason, m.CreatedBy)
	})

	total := page.Pagination.Total
	return &ViewResult[models.Movement]{
		Items:   items,
		Stats:   movementStats(items),
		Filters: st.Filters,
		Pagination: listing.PageInfo{
			Page:       st.Page,
			Limit:      st.PerPage,
			Total:      total,
			Pages:      pages,
			StartIndex: (st.Page - 1) * st.PerPage,
		},
	}, nil
}

func (s *MovementService) fetch(ctx context.Context, st listing.State, page int) (models.Page[models.Movement], error) {
	d := s.deps
	mq := models.MovementQuery{
		Page:     page,
		Limit:    st.PerPage,
		Type:     st.Filters.Category,
		DateFrom: st.Filters.DateFrom,
		DateTo:   st.Filters.DateTo,
	}
	params := mq.Values()
	params["page"] = strconv.Itoa(mq.Page)
	params["limit"] = strconv.Itoa(mq.Limit)

	key := cache.NewKey(ResourceMovements, paramsKey(params)...)
	release := d.Cache.Observe(ctx, key)
	defer release()

	return cache.Query(ctx, d.Cache, key, func(ctx context.Context) (models.Page[models.Movement], error) {
		return client.Movements.Page(ctx, d.Client, params)
	})
}

func movementStats(items []models.Movement) MovementStats {
	var st MovementStats
	for _, m := range items {
		switch m.Type {
		case models.MovementIn:
			st.In += m.Quantity
			st.Net += m.Quantity
		case models.MovementOut:
			st.Out += m.Quantity
			st.Net -= m.Quantity
		case models.MovementAdjustment:
			st.Adjustments++
		}
	}
	return st
}
