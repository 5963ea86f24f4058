package inventory

import (
	"errors"
	"fmt"
	"time"
)

// MovementType enumerates stock mutations recorded in the movement trail.
type MovementType string

const (
	// MovementTypeReserve is an outbound decrement committed by a sale.
	MovementTypeReserve MovementType = "RESERVE"
	// MovementTypeRestore reverses a prior reservation on void.
	MovementTypeRestore MovementType = "RESTORE"
	// MovementTypeAdjust is a manual signed correction.
	MovementTypeAdjust MovementType = "ADJUST"
)

// Movement is one immutable entry in the stock audit trail.
type Movement struct {
	ID        int64
	Code      string
	Type      MovementType
	ProductID int64
	Qty       int
	Balance   int
	Reason    string
	RefSaleID int64
	PostedAt  time.Time
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	ProductID int64
	Type      MovementType
	From      time.Time
	To        time.Time
	Limit     int
}

// ErrProductNotFound indicates an unknown product.
var ErrProductNotFound = errors.New("inventory: product not found")

// ErrInvalidQuantity indicates a non-positive quantity where one is required.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

// ErrInsufficientStock is the match target for InsufficientStockError.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrNegativeStock is the match target for NegativeStockError.
var ErrNegativeStock = errors.New("inventory: negative stock not allowed")

// InsufficientStockError reports a reservation that exceeds available stock.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NegativeStockError reports an adjustment that would drive stock below zero.
type NegativeStockError struct {
	ProductID int64
	Current   int
	Delta     int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("inventory: adjustment of %+d on product %d would leave stock at %d",
		e.Delta, e.ProductID, e.Current+e.Delta)
}

func (e *NegativeStockError) Unwrap() error { return ErrNegativeStock }
