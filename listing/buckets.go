package listing

// 库存分组
const (
	StockOK  = "ok"
	StockLow = "low"
	StockOut = "out"
)

// StockBuckets 所有库存分组
var StockBuckets = []string{StockOK, StockLow, StockOut}

// ClassifyStock 库存为 0（或负数）为 out，不高于最低库存为 low，否则 ok
func ClassifyStock(units, minStock int) string {
	switch {
	case units <= 0:
		return StockOut
	case units <= minStock:
		return StockLow
	}
	return StockOK
}
