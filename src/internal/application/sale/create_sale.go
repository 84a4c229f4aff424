package sale

import (
	"context"
	"fmt"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

var commandValidator = NewCommandValidator()

// ===========================
// CreateSale Use Case
// ===========================

// CreateSaleUseCase opens a sale, adds the requested lines and stores it.
//
// Flow:
//  1. command shape check (no aggregate touched on failure)
//  2. build the sale through the factory and add every line
//  3. structural validation
//  4. Create inside a transaction
//  5. publish SaleRegistered after commit
type CreateSaleUseCase struct {
	saleRepo  domain.SaleRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	factory   *domain.Factory
	log       *logger.Logger
}

// NewCreateSaleUseCase wires the use case.
func NewCreateSaleUseCase(
	repo domain.SaleRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	factory *domain.Factory,
	log *logger.Logger,
) *CreateSaleUseCase {
	if factory == nil {
		factory = domain.NewFactory(nil, nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CreateSaleUseCase{
		saleRepo:  repo,
		txManager: txManager,
		publisher: publisher,
		factory:   factory,
		log:       log,
	}
}

// Execute runs the use case.
//
// Errors:
//   - *domain.ValidationFailedError: malformed command or invalid sale
//   - INVALID_ARGUMENT / INVALID_STATE from AddItem
//   - ErrSaleAlreadyExists and storage errors from the repository
func (uc *CreateSaleUseCase) Execute(ctx context.Context, cmd CreateSaleCommand) (*SaleResult, error) {
	if err := commandValidator.Validate(cmd); err != nil {
		return nil, err
	}

	customerID, err := domain.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}
	branchID, err := domain.BranchIDFromString(cmd.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch ID: %w", err)
	}

	s := uc.factory.NewSale(customerID, cmd.CustomerName, branchID, cmd.BranchName)
	for _, in := range cmd.Items {
		productID, err := domain.ProductIDFromString(in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse product ID: %w", err)
		}
		if _, err := s.AddItem(productID, in.ProductName, in.Quantity, in.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to add product %s: %w", in.ProductID, err)
		}
	}

	if err := s.Validate().Err(); err != nil {
		return nil, err
	}

	var created *domain.Sale
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		var err error
		created, err = uc.saleRepo.Create(tx, s)
		if err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("sale created",
		"sale_id", created.ID().String(),
		"sale_number", created.SaleNumber(),
		"total_amount", created.TotalAmount().String(),
	)
	publishCommitted(ctx, uc.publisher, uc.log, s.PullEvents())

	return toSaleResult(created), nil
}
