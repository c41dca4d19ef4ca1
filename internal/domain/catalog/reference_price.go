package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferencePrice is the unit price of a product under one pricelist, stored
// so it can be listed without running the pricelist rules.
type ReferencePrice struct {
	ID          uuid.UUID
	PricelistID uuid.UUID
	ProductID   uuid.UUID
	Price       decimal.Decimal
	ComputedAt  time.Time
}

// RefreshReferencePrices computes the unit price of product under every
// pricelist and stores it on the product, creating missing entries.
// category may be nil for uncategorized products.
func RefreshReferencePrices(product *Product, category *Category, pricelists []*Pricelist, at time.Time) {
	pc := PriceContextFor(product, category)
	for _, pl := range pricelists {
		price, _ := pl.ComputePrice(pc, decimal.NewFromInt(1), at)
		product.SetReferencePrice(pl.ID, price, at)
	}
}

// PriceContextFor builds the pricing view of a product. The lineage is ordered
// from the product category up to the root.
func PriceContextFor(product *Product, category *Category) PriceContext {
	pc := PriceContext{ProductID: product.ID, ListPrice: product.ListPrice}
	if category != nil {
		lineage := category.LineageIDs()
		for i := len(lineage) - 1; i >= 0; i-- {
			pc.CategoryLineage = append(pc.CategoryLineage, lineage[i])
		}
	}
	return pc
}
