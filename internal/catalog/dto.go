package catalog

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	StockQty    int    `json:"stock_qty" validate:"gte=0"`
	MinStock    int    `json:"min_stock" validate:"gte=0"`
	SupplierID  int64  `json:"supplier_id" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// SupplierRequest is the create/update payload for suppliers.
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Contact string `json:"contact" validate:"max=120"`
	Phone   string `json:"phone" validate:"max=40"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// ProductListResponse wraps a product page with its total count.
type ProductListResponse struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}
