package ledger

// CreateSaleRequest is the payload for recording a sale.
type CreateSaleRequest struct {
	CustomerID int64             `json:"customer_id" validate:"required,gt=0"`
	Lines      []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineRequest is one requested product position.
type SaleLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

// CreatePaymentRequest is the payload for recording a payment.
type CreatePaymentRequest struct {
	SaleID int64  `json:"sale_id" validate:"required,gt=0"`
	Amount string `json:"amount" validate:"required"`
	Method string `json:"method" validate:"required,oneof=CASH CARD TRANSFER"`
	Note   string `json:"note" validate:"max=255"`
}

// AdjustStockRequest is the payload for a manual stock correction.
type AdjustStockRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason" validate:"required,max=255"`
}

// AdjustStockResponse returns the quantity after a correction.
type AdjustStockResponse struct {
	ProductID int64 `json:"product_id"`
	NewQty    int   `json:"new_qty"`
}
