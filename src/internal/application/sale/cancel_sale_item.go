package sale

import (
	"context"
	"fmt"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// ===========================
// CancelSaleItem Use Case
// ===========================

// CancelSaleItemUseCase cancels one line and reports the new sale total.
type CancelSaleItemUseCase struct {
	saleRepo  domain.SaleRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewCancelSaleItemUseCase wires the use case.
func NewCancelSaleItemUseCase(
	repo domain.SaleRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CancelSaleItemUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CancelSaleItemUseCase{
		saleRepo:  repo,
		txManager: txManager,
		publisher: publisher,
		log:       log,
	}
}

// Execute runs the use case.
//
// Errors: ErrSaleNotFound, ErrItemNotFound, ErrSaleCancelled,
// ErrConcurrentModification.
func (uc *CancelSaleItemUseCase) Execute(ctx context.Context, cmd CancelSaleItemCommand) (*CancelSaleItemResult, error) {
	if err := commandValidator.Validate(cmd); err != nil {
		return nil, err
	}

	saleID, err := domain.SaleIDFromString(cmd.SaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sale ID: %w", err)
	}
	itemID, err := domain.SaleItemIDFromString(cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item ID: %w", err)
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
		if err := s.CancelItem(itemID); err != nil {
			return fmt.Errorf("failed to cancel item: %w", err)
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

	uc.log.Info("sale item cancelled",
		"sale_id", saleID.String(),
		"item_id", itemID.String(),
		"total_amount", updated.TotalAmount().String(),
	)
	publishCommitted(ctx, uc.publisher, uc.log, events)

	return &CancelSaleItemResult{
		Success:          true,
		SaleID:           saleID.String(),
		ItemID:           itemID.String(),
		UpdatedSaleTotal: updated.TotalAmount(),
	}, nil
}
