package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-dist/meridian-core/internal/inventory"
	"github.com/meridian-dist/meridian-core/internal/money"
	"github.com/meridian-dist/meridian-core/internal/payments"
	"github.com/meridian-dist/meridian-core/internal/sales"
)

// TxRepository exposes every write the coordinator may perform inside one
// transaction. It satisfies the inventory and payment ledgers' stores so a
// single transaction spans all three entities.
type TxRepository interface {
	inventory.TxStore
	payments.TxStore

	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	GetProductForSale(ctx context.Context, productID int64) (ProductInfo, error)
	InsertSale(ctx context.Context, sale sales.Sale) (int64, error)
	InsertLineItems(ctx context.Context, saleID int64, lines []sales.LineItem) ([]sales.LineItem, error)
	GetSaleForUpdate(ctx context.Context, saleID int64) (sales.Sale, error)
	ListLineItems(ctx context.Context, saleID int64) ([]sales.LineItem, error)
	DeleteLineItems(ctx context.Context, saleID int64) error
	DeleteSale(ctx context.Context, saleID int64) error
}

// RepositoryPort abstracts repository usage for the coordinator.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	GetSale(ctx context.Context, saleID int64) (sales.Sale, error)
	ListLineItems(ctx context.Context, saleID int64) ([]sales.LineItem, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]sales.Sale, error)
	ListPayments(ctx context.Context, saleID int64) ([]payments.Payment, error)
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	GetCustomerBalance(ctx context.Context, customerID int64) (CustomerBalance, error)
}

// Invalidator is notified after every successful mutation so derived caches
// can drop stale aggregates.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service is the transaction coordinator. Every mutating operation runs as
// one atomic unit: preconditions abort before any write, and a failure
// mid-sequence compensates already-applied writes in reverse order before
// the error surfaces. No partial sale, stock change, or orphaned line item
// is ever observable to a subsequent read.
type Service struct {
	repo       RepositoryPort
	stock      *inventory.Ledger
	pay        *payments.Ledger
	logger     *slog.Logger
	clock      func() time.Time
	invalidate Invalidator
}

// NewService builds the coordinator.
func NewService(repo RepositoryPort, stock *inventory.Ledger, pay *payments.Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		stock:  stock,
		pay:    pay,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// SetInvalidator attaches a cache invalidator. Optional.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.invalidate = inv
}

func (s *Service) bumpCaches(ctx context.Context) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", slog.Any("error", err))
	}
}

// RecordSale atomically creates a sale with its line items and reserves
// stock for every line. Unit prices are snapshotted from the catalog at
// resolution time. If any reservation fails, reservations already applied
// in this call are restored in reverse order and the originating error
// surfaces unchanged.
func (s *Service) RecordSale(ctx context.Context, customerID int64, items []sales.LineRequest) (sales.Sale, error) {
	if len(items) == 0 {
		return sales.Sale{}, sales.ErrEmptySale
	}
	for _, item := range items {
		if item.Qty <= 0 {
			return sales.Sale{}, sales.ErrInvalidQuantity
		}
	}

	var result sales.Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.CustomerExists(ctx, customerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCustomerNotFound
		}

		priced := make([]sales.PricedLine, 0, len(items))
		for _, item := range items {
			product, err := tx.GetProductForSale(ctx, item.ProductID)
			if err != nil {
				return err
			}
			priced = append(priced, sales.PricedLine{
				ProductID: product.ID,
				Qty:       item.Qty,
				UnitPrice: product.UnitPrice,
			})
		}

		sale, err := sales.Build(customerID, priced, s.clock())
		if err != nil {
			return err
		}

		saleID, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = saleID
		sale.Lines, err = tx.InsertLineItems(ctx, saleID, sale.Lines)
		if err != nil {
			return err
		}

		// Reserve stock line by line. On failure, compensate in reverse
		// order of application so the store is clean even without a
		// rolling-back transaction underneath.
		for i, line := range sale.Lines {
			if _, err := s.stock.Reserve(ctx, tx, line.ProductID, line.Qty, saleID); err != nil {
				if cerr := s.compensateSale(ctx, tx, sale, i); cerr != nil {
					return errors.Join(err, cerr)
				}
				return err
			}
		}

		result = sale
		return nil
	})
	if err != nil {
		return sales.Sale{}, err
	}

	s.logger.Info("sale recorded",
		slog.Int64("sale_id", result.ID),
		slog.Int64("customer_id", customerID),
		slog.Int("lines", len(result.Lines)),
		slog.String("total", result.Total.String()),
	)
	s.bumpCaches(ctx)
	return result, nil
}

// compensateSale undoes a partially applied RecordSale: the first reserved
// line items [0, reservedLines) are restored newest first, then the line
// items and the sale header are deleted.
func (s *Service) compensateSale(ctx context.Context, tx TxRepository, sale sales.Sale, reservedLines int) error {
	for i := reservedLines - 1; i >= 0; i-- {
		line := sale.Lines[i]
		if _, err := s.stock.Restore(ctx, tx, line.ProductID, line.Qty, sale.ID); err != nil {
			return fmt.Errorf("ledger: compensate reservation for product %d: %w", line.ProductID, err)
		}
	}
	if err := tx.DeleteLineItems(ctx, sale.ID); err != nil {
		return fmt.Errorf("ledger: compensate line items: %w", err)
	}
	if err := tx.DeleteSale(ctx, sale.ID); err != nil {
		return fmt.Errorf("ledger: compensate sale: %w", err)
	}
	return nil
}

// VoidSale reverses a sale: stock is restored for every line item, then the
// line items and the sale are deleted. A sale with any payment on record is
// rejected, paid or not; its payments must be voided first so recorded
// income never disappears as a side effect.
func (s *Service) VoidSale(ctx context.Context, saleID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sale.EnsureVoidable(); err != nil {
			return err
		}
		paid, err := tx.SumPayments(ctx, saleID)
		if err != nil {
			return err
		}
		if !paid.IsZero() {
			return ErrSaleHasPayments
		}
		lines, err := tx.ListLineItems(ctx, saleID)
		if err != nil {
			return err
		}
		// Restoration runs before deletion so a crash mid-operation can be
		// re-derived from the surviving line items.
		for _, line := range lines {
			if _, err := s.stock.Restore(ctx, tx, line.ProductID, line.Qty, saleID); err != nil {
				return err
			}
		}
		if err := tx.DeleteLineItems(ctx, saleID); err != nil {
			return err
		}
		return tx.DeleteSale(ctx, saleID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale voided", slog.Int64("sale_id", saleID))
	s.bumpCaches(ctx)
	return nil
}

// RecordPayment records a payment against a sale through the payment
// ledger, which rejects overpayment and flips the paid flag on exact
// settlement.
func (s *Service) RecordPayment(ctx context.Context, saleID int64, amount money.Amount, method payments.Method, note string) (payments.Payment, error) {
	var result payments.Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		result, err = s.pay.Record(ctx, tx, sale, amount, method, note)
		return err
	})
	if err != nil {
		return payments.Payment{}, err
	}

	s.logger.Info("payment recorded",
		slog.Int64("payment_id", result.ID),
		slog.Int64("sale_id", saleID),
		slog.String("amount", result.Amount.String()),
		slog.String("method", string(result.Method)),
	)
	s.bumpCaches(ctx)
	return result, nil
}

// VoidPayment deletes a payment and resets the owning sale's paid flag to
// false regardless of remaining payments.
func (s *Service) VoidPayment(ctx context.Context, paymentID int64) error {
	var voided payments.Payment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		voided, err = s.pay.Void(ctx, tx, paymentID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment voided",
		slog.Int64("payment_id", paymentID),
		slog.Int64("sale_id", voided.SaleID),
		slog.String("amount", voided.Amount.String()),
	)
	s.bumpCaches(ctx)
	return nil
}

// AdjustStock applies a manual stock correction outside the sale flow and
// returns the new quantity.
func (s *Service) AdjustStock(ctx context.Context, productID int64, delta int, reason string) (int, error) {
	var newQty int
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		newQty, err = s.stock.Adjust(ctx, tx, productID, delta, reason)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("stock adjusted",
		slog.Int64("product_id", productID),
		slog.Int("delta", delta),
		slog.Int("new_qty", newQty),
		slog.String("reason", reason),
	)
	s.bumpCaches(ctx)
	return newQty, nil
}

// GetSale loads a sale with its line items.
func (s *Service) GetSale(ctx context.Context, saleID int64) (sales.Sale, error) {
	return s.repo.GetSale(ctx, saleID)
}

// ListSaleLineItems lists the line items of a sale in insertion order.
func (s *Service) ListSaleLineItems(ctx context.Context, saleID int64) ([]sales.LineItem, error) {
	return s.repo.ListLineItems(ctx, saleID)
}

// ListSales lists sales, optionally filtered by customer and paid state.
func (s *Service) ListSales(ctx context.Context, filter SaleFilter) ([]sales.Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	return s.repo.ListSales(ctx, filter)
}

// ListSalePayments lists the payments recorded against a sale.
func (s *Service) ListSalePayments(ctx context.Context, saleID int64) ([]payments.Payment, error) {
	return s.repo.ListPayments(ctx, saleID)
}

// CustomerBalance derives a customer's total sold, total paid and pending
// balance from the stored sales and payments.
func (s *Service) CustomerBalance(ctx context.Context, customerID int64) (CustomerBalance, error) {
	ok, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return CustomerBalance{}, err
	}
	if !ok {
		return CustomerBalance{}, ErrCustomerNotFound
	}
	return s.repo.GetCustomerBalance(ctx, customerID)
}
