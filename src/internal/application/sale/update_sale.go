package sale

import (
	"context"
	"fmt"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// ===========================
// UpdateSale Use Case
// ===========================

// UpdateSaleUseCase applies a batch of line changes to a stored sale.
// Lines with an ItemID change that line's quantity; lines without one are
// added (merging into an active line of the same product).
//
// The batch is atomic: any failing line aborts the whole update.
type UpdateSaleUseCase struct {
	saleRepo  domain.SaleRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewUpdateSaleUseCase wires the use case.
func NewUpdateSaleUseCase(
	repo domain.SaleRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *UpdateSaleUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &UpdateSaleUseCase{
		saleRepo:  repo,
		txManager: txManager,
		publisher: publisher,
		log:       log,
	}
}

// Execute runs the use case.
//
// Errors:
//   - *domain.ValidationFailedError: malformed command or invalid sale
//   - ErrSaleNotFound, ErrItemNotFound
//   - ErrSaleCancelled, ErrItemCancelled, ErrItemLimitExceeded
//   - ErrQuantityAboveLimit and the other INVALID_ARGUMENT errors
//   - ErrConcurrentModification when another writer got there first
func (uc *UpdateSaleUseCase) Execute(ctx context.Context, cmd UpdateSaleCommand) (*SaleResult, error) {
	if err := commandValidator.Validate(cmd); err != nil {
		return nil, err
	}

	saleID, err := domain.SaleIDFromString(cmd.SaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sale ID: %w", err)
	}

	var (
		updated *domain.Sale
		events  []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		s, err := uc.saleRepo.GetByID(tx, saleID)
		if err != nil {
			return fmt.Errorf("failed to load sale: %w", err)
		}
		if s.IsCancelled() {
			return domain.ErrSaleCancelled.WithContext("sale_id", saleID.String())
		}

		for _, in := range cmd.Items {
			if err := applyItemChange(s, in); err != nil {
				return err
			}
		}

		if err := s.Validate().Err(); err != nil {
			return err
		}

		updated, err = uc.saleRepo.Update(tx, s)
		if err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		events = s.PullEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("sale updated",
		"sale_id", updated.ID().String(),
		"version", updated.Version(),
		"total_amount", updated.TotalAmount().String(),
	)
	publishCommitted(ctx, uc.publisher, uc.log, events)

	return toSaleResult(updated), nil
}

func applyItemChange(s *domain.Sale, in SaleItemInput) error {
	if in.ItemID != "" {
		itemID, err := domain.SaleItemIDFromString(in.ItemID)
		if err != nil {
			return fmt.Errorf("failed to parse item ID: %w", err)
		}
		if err := s.UpdateItemQuantity(itemID, in.Quantity); err != nil {
			return fmt.Errorf("failed to update item %s: %w", in.ItemID, err)
		}
		return nil
	}

	productID, err := domain.ProductIDFromString(in.ProductID)
	if err != nil {
		return fmt.Errorf("failed to parse product ID: %w", err)
	}
	if _, err := s.AddItem(productID, in.ProductName, in.Quantity, in.UnitPrice); err != nil {
		return fmt.Errorf("failed to add product %s: %w", in.ProductID, err)
	}
	return nil
}
