package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// ===========================
// GORMSaleRepository
// ===========================

// GORMSaleRepository implements sale.SaleRepository.
//
// A sale is stored as one sales row plus one sale_items row per line. Writes
// use optimistic concurrency on the version column.
type GORMSaleRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGORMSaleRepository returns a repository on db. clock is handed to
// reconstructed aggregates; nil means the system clock.
func NewGORMSaleRepository(db *gorm.DB, clock shared.Clock) *GORMSaleRepository {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &GORMSaleRepository{db: db, clock: clock}
}

var _ sale.SaleRepository = (*GORMSaleRepository)(nil)

// GetByID loads a sale and its items in insertion order.
func (r *GORMSaleRepository) GetByID(ctx shared.TransactionContext, id sale.SaleID) (*sale.Sale, error) {
	db := r.getDB(ctx)

	var model SaleModel
	err := db.Preload("Items", orderByPosition).
		Where("id = ?", id.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound.WithContext("sale_id", id.String())
		}
		return nil, err
	}

	return toSaleDomain(&model, r.clock)
}

// Create inserts the sale and its items.
func (r *GORMSaleRepository) Create(ctx shared.TransactionContext, s *sale.Sale) (*sale.Sale, error) {
	db := r.getDB(ctx)

	model := toSaleModel(s)
	if err := db.Create(model).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, sale.ErrSaleAlreadyExists.WithContext(
				"sale_id", s.ID().String(),
				"sale_number", s.SaleNumber(),
			)
		}
		return nil, err
	}

	return s, nil
}

// Update writes the header when the stored version matches, bumps the
// version, upserts every item row and returns the reloaded sale.
//
// Errors:
//   - sale.ErrSaleNotFound when the row does not exist
//   - sale.ErrConcurrentModification when the version moved on
func (r *GORMSaleRepository) Update(ctx shared.TransactionContext, s *sale.Sale) (*sale.Sale, error) {
	db := r.getDB(ctx)
	model := toSaleModel(s)

	result := db.Model(&SaleModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"total_amount": model.TotalAmount,
			"is_cancelled": model.IsCancelled,
			"updated_at":   model.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.missingOrStale(db, model)
	}

	if len(model.Items) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "discount_percentage", "discount_amount", "total_amount", "is_cancelled"}),
		}).Create(&model.Items).Error
		if err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, s.ID())
}

// GetAll returns every sale, newest first.
func (r *GORMSaleRepository) GetAll(ctx shared.TransactionContext) ([]*sale.Sale, error) {
	db := r.getDB(ctx)

	var models []SaleModel
	err := db.Preload("Items", orderByPosition).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*sale.Sale, 0, len(models))
	for i := range models {
		s, err := toSaleDomain(&models[i], r.clock)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ===========================
// Helpers
// ===========================

// getDB returns the transaction handle when ctx carries one, otherwise the
// auto-commit connection.
func (r *GORMSaleRepository) getDB(ctx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := ctx.(*gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return r.db
}

func (r *GORMSaleRepository) missingOrStale(db *gorm.DB, model *SaleModel) error {
	var stored SaleModel
	err := db.Select("id", "version").Where("id = ?", model.ID).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sale.ErrSaleNotFound.WithContext("sale_id", model.ID)
	}
	if err != nil {
		return err
	}
	return sale.ErrConcurrentModification.WithContext(
		"sale_id", model.ID,
		"expected_version", model.Version,
		"stored_version", stored.Version,
	)
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// isUniqueConstraintError matches the unique-violation messages of SQLite
// and PostgreSQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
