package service

import (
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/utils"
)

// SaleStats 销售统计（筛选后）。金额按币种分别累计。
type SaleStats struct {
	Count     int                            `json:"count"`
	ByStatus  map[string]int                 `json:"byStatus"`
	Totals    listing.MoneyTotals            `json:"totals"`
	Paid      listing.MoneyTotals            `json:"paid"`
	ByPayment map[string]listing.MoneyTotals `json:"byPaymentStatus"`
	// BsInUSD 仅在显式要求换算时给出
	BsInUSD *listing.Conversion `json:"bsInUSD,omitempty"`
}

// SaleService 销售：搜索单号/客户、付款状态、日期范围
type SaleService struct {
	*localView[models.Sale]
}

// NewSaleService 创建销售视图
func NewSaleService(d *Deps) *SaleService {
	return &SaleService{&localView[models.Sale]{
		deps:     d,
		name:     ViewSales,
		resource: client.Sales,
		cacheKey: ResourceSales,
		predicate: func(f listing.FilterState, r listing.DateRange) listing.Predicate[models.Sale] {
			return listing.And[models.Sale](
				func(s models.Sale) bool { return listing.MatchText(f.Search, s.Number, s.OwnerName, s.Notes) },
				func(s models.Sale) bool { return listing.MatchBucket(f.Status, s.PaymentStatus()) },
				func(s models.Sale) bool { return r.Contains(s.Date) },
			)
		},
		stats: func(_, filtered []models.Sale, q Query) any {
			return saleStats(filtered, q.Convert)
		},
	}}
}

func saleTotal(s models.Sale) models.Money { return s.Total }

func salePaid(s models.Sale) models.Money { return s.AmountPaid }

func saleStatus(s models.Sale) string { return s.PaymentStatus() }

func saleStats(sales []models.Sale, convert bool) SaleStats {
	st := SaleStats{
		Count:     len(sales),
		ByStatus:  listing.CountBy(sales, saleStatus, models.PaymentStatuses...),
		Totals:    listing.SumMoney(sales, saleTotal),
		Paid:      listing.SumMoney(sales, salePaid),
		ByPayment: listing.SumMoneyBy(sales, saleStatus, saleTotal, models.PaymentStatuses...),
	}
	if st.Totals.Unknown > 0 {
		utils.Logger.Warn().Int("count", st.Totals.Unknown).Msg("销售金额币种无法识别，未计入合计")
	}
	if convert {
		conv := listing.ConvertBs(sales, saleTotal)
		st.BsInUSD = &conv
	}
	return st
}
