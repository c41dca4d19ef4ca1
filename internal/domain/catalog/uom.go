package catalog

import (
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUomRounding is the precision used when a unit does not define one.
var DefaultUomRounding = decimal.NewFromFloat(0.01)

// UnitOfMeasure converts quantities within a unit category ("Unit", "Weight"...).
// A unit with factor f means one reference unit equals f of this unit.
type UnitOfMeasure struct {
	shared.TenantAggregateRoot
	Name     string
	Category string
	Factor   decimal.Decimal
	Rounding decimal.Decimal
}

func NewUnitOfMeasure(tenantID uuid.UUID, name, category string, factor, rounding decimal.Decimal) (*UnitOfMeasure, error) {
	if err := shared.ValidateName("Unit", name, 50); err != nil {
		return nil, err
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_UOM_CATEGORY", "Unit category cannot be empty")
	}
	if !factor.IsPositive() {
		return nil, shared.NewDomainError("INVALID_UOM_FACTOR", "Unit factor must be positive")
	}
	if rounding.IsZero() {
		rounding = DefaultUomRounding
	}
	if rounding.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UOM_ROUNDING", "Unit rounding must be positive")
	}
	return &UnitOfMeasure{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Category:            category,
		Factor:              factor,
		Rounding:            rounding,
	}, nil
}

func (u *UnitOfMeasure) precision() decimal.Decimal {
	if u.Rounding.IsPositive() {
		return u.Rounding
	}
	return DefaultUomRounding
}

// Round rounds qty half away from zero to a multiple of the unit rounding.
func (u *UnitOfMeasure) Round(qty decimal.Decimal) decimal.Decimal {
	r := u.precision()
	return qty.Div(r).Round(0).Mul(r)
}

// IsZero reports whether qty is indistinguishable from zero at the unit precision.
func (u *UnitOfMeasure) IsZero(qty decimal.Decimal) bool {
	return u.Round(qty).Abs().LessThan(u.precision())
}

// ComputeQuantity converts qty of u into unit to, rounded at to's precision.
func (u *UnitOfMeasure) ComputeQuantity(qty decimal.Decimal, to *UnitOfMeasure) (decimal.Decimal, error) {
	if to == nil || to.ID == u.ID {
		return qty, nil
	}
	if to.Category != u.Category {
		return decimal.Zero, shared.NewDomainError("UOM_CATEGORY_MISMATCH",
			"Cannot convert "+u.Name+" to "+to.Name+": units belong to different categories")
	}
	return to.Round(qty.Div(u.Factor).Mul(to.Factor)), nil
}
