package service

import (
	"context"

	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/models"
)

// ProductStats 产品统计（全量）
type ProductStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// ProductService 产品列表：名称/描述/分类搜索、分类筛选、库存分组筛选
type ProductService struct {
	*localView[models.Product]
}

// NewProductService 创建产品视图
func NewProductService(d *Deps) *ProductService {
	return &ProductService{&localView[models.Product]{
		deps:      d,
		name:      ViewProducts,
		resource:  client.Products,
		cacheKey:  ResourceProducts,
		predicate: productPredicate,
		stats: func(all, _ []models.Product, _ Query) any {
			return productStats(all)
		},
	}}
}

func stockBucket(p models.Product) string {
	return listing.ClassifyStock(p.StockUnits, p.MinStock)
}

func productPredicate(f listing.FilterState, r listing.DateRange) listing.Predicate[models.Product] {
	return listing.And[models.Product](
		func(p models.Product) bool { return listing.MatchText(f.Search, p.Name, p.Description, p.Category) },
		func(p models.Product) bool { return listing.MatchCategory(f.Category, p.Category) },
		func(p models.Product) bool { return listing.MatchBucket(f.Status, stockBucket(p)) },
		func(p models.Product) bool { return r.Contains(p.CreatedAt) },
	)
}

func productStats(all []models.Product) ProductStats {
	buckets := listing.CountBy(all, stockBucket, listing.StockBuckets...)
	return ProductStats{
		Total:      len(all),
		Active:     listing.Count(all, func(p models.Product) bool { return p.Active }),
		LowStock:   buckets[listing.StockLow],
		OutOfStock: buckets[listing.StockOut],
	}
}

// StockStats 库存视图统计（全量）
type StockStats struct {
	OK         int `json:"ok"`
	Low        int `json:"low"`
	Out        int `json:"out"`
	TotalUnits int `json:"totalUnits"`
}

// StockRow 库存视图的一行
type StockRow struct {
	models.Product
	Bucket string `json:"bucket"`
}

// StockService 库存视图：与产品列表读同一集合，按库存升序，可按分组筛选
type StockService struct {
	*localView[models.Product]
}

// NewStockService 创建库存视图
func NewStockService(d *Deps) *StockService {
	return &StockService{&localView[models.Product]{
		deps:      d,
		name:      ViewStock,
		resource:  client.Products,
		cacheKey:  ResourceProducts,
		predicate: productPredicate,
		order: func(a, b models.Product) bool {
			return a.StockUnits < b.StockUnits
		},
		stats: func(all, _ []models.Product, _ Query) any {
			buckets := listing.CountBy(all, stockBucket, listing.StockBuckets...)
			return StockStats{
				OK:         buckets[listing.StockOK],
				Low:        buckets[listing.StockLow],
				Out:        buckets[listing.StockOut],
				TotalUnits: listing.SumInt(all, func(p models.Product) int { return p.StockUnits }),
			}
		},
	}}
}

// Load 在产品数据上附加库存分组
func (s *StockService) Load(ctx context.Context, session string, q Query) (any, error) {
	res, err := s.List(ctx, session, q)
	if err != nil {
		return nil, err
	}
	rows := make([]StockRow, 0, len(res.Items))
	for _, p := range res.Items {
		rows = append(rows, StockRow{Product: p, Bucket: stockBucket(p)})
	}
	return &ViewResult[StockRow]{
		Items:      rows,
		Stats:      res.Stats,
		Filters:    res.Filters,
		Pagination: res.Pagination,
	}, nil
}
