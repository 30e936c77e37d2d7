package models

// Product 产品（药品、疫苗、耗材等）模型
type Product struct {
	ID          string `json:"_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	StockUnits  int    `json:"stockUnits" validate:"gte=0"`
	MinStock    int    `json:"minStock" validate:"gte=0"`
	Active      bool   `json:"active"`
	CreatedAt   Date   `json:"createdAt"`
}

// ProductRequest 创建/更新产品请求
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Price       Money  `json:"price"`
	StockUnits  int    `json:"stockUnits" binding:"min=0"`
	MinStock    int    `json:"minStock" binding:"min=0"`
	Active      bool   `json:"active"`
}
