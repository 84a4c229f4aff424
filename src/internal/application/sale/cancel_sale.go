package sale

import (
	"context"
	"fmt"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// ===========================
// CancelSale Use Case
// ===========================

// CancelSaleUseCase cancels a whole sale. Cancelling an already cancelled
// sale succeeds without writing or publishing anything.
type CancelSaleUseCase struct {
	saleRepo  domain.SaleRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewCancelSaleUseCase wires the use case.
func NewCancelSaleUseCase(
	repo domain.SaleRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CancelSaleUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CancelSaleUseCase{
		saleRepo:  repo,
		txManager: txManager,
		publisher: publisher,
		log:       log,
	}
}

// Execute runs the use case.
func (uc *CancelSaleUseCase) Execute(ctx context.Context, cmd CancelSaleCommand) (*CancelSaleResult, error) {
	if err := commandValidator.Validate(cmd); err != nil {
		return nil, err
	}

	saleID, err := domain.SaleIDFromString(cmd.SaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sale ID: %w", err)
	}

	var (
		result *CancelSaleResult
		events []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		s, err := uc.saleRepo.GetByID(tx, saleID)
		if err != nil {
			return fmt.Errorf("failed to load sale: %w", err)
		}

		result = &CancelSaleResult{Success: true, SaleID: s.ID().String(), SaleNumber: s.SaleNumber()}
		if s.IsCancelled() {
			return nil
		}

		s.Cancel()
		if _, err := uc.saleRepo.Update(tx, s); err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		events = s.PullEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(events) > 0 {
		uc.log.Info("sale cancelled", "sale_id", result.SaleID)
	}
	publishCommitted(ctx, uc.publisher, uc.log, events)

	return result, nil
}
