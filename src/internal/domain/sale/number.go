package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SaleNumberGenerator produces the human-facing sale number.
type SaleNumberGenerator interface {
	Next(at time.Time) string
}

// UUIDSaleNumberGenerator yields SALE-<yyyyMMdd>-<8 uppercase hex chars>.
// The date is taken in UTC; the suffix comes from a fresh random UUID.
type UUIDSaleNumberGenerator struct{}

// Next implements SaleNumberGenerator.
func (UUIDSaleNumberGenerator) Next(at time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("SALE-%s-%s", at.UTC().Format("20060102"), suffix)
}

// FixedSaleNumberGenerator always returns Number. Used by tests and fixtures.
type FixedSaleNumberGenerator struct {
	Number string
}

// Next implements SaleNumberGenerator.
func (g FixedSaleNumberGenerator) Next(time.Time) string {
	return g.Number
}
