package products

// Product は機種マスタ。個体（equipment_items）は product_id でここを参照する。
type Product struct {
	ProductID    uint64 `json:"product_id"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	Category     string `json:"category"` // wheelchair / bed / walker など
	Manufacturer string `json:"manufacturer,omitempty"`
	IsDisabled   bool   `json:"is_disabled"`
}

type CreateProductRequest struct {
	ProductCode  string `json:"product_code" binding:"required"`
	ProductName  string `json:"product_name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Manufacturer string `json:"manufacturer"`
}

type UpdateProductRequest struct {
	ProductCode  string `json:"product_code" binding:"required"`
	ProductName  string `json:"product_name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	IsDisabled   bool   `json:"is_disabled"`
}
