package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "eco-01", "Compost bin", uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates saleable non-exclusive product", func(t *testing.T) {
		p, err := NewProduct(tenantID, "eco-01", "Compost bin", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "ECO-01", p.Code)
		assert.True(t, p.SaleOk)
		assert.False(t, p.ExclusiveOk)
		assert.Empty(t, p.ExclusivePartnerIDs)
		assert.True(t, p.ListPrice.IsZero())
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("requires unit", func(t *testing.T) {
		_, err := NewProduct(tenantID, "ECO", "Bin", uuid.Nil)
		assert.ErrorContains(t, err, "unit of measure is required")
	})

	t.Run("rejects invalid code", func(t *testing.T) {
		_, err := NewProduct(tenantID, "ECO 1", "Bin", uuid.New())
		assert.ErrorContains(t, err, "can only contain")
	})
}

func TestProduct_ExclusiveOkFollowsPartnerSet(t *testing.T) {
	p := newTestProduct(t)
	c1, c2 := uuid.New(), uuid.New()

	changed := p.SetExclusivePartners([]uuid.UUID{c1, c1, uuid.Nil, c2})
	assert.True(t, changed)
	assert.Equal(t, []uuid.UUID{c1, c2}, p.ExclusivePartnerIDs)
	assert.True(t, p.ExclusiveOk)

	assert.False(t, p.AddExclusivePartner(c1))
	assert.True(t, p.RemoveExclusivePartner(c1))
	assert.True(t, p.ExclusiveOk)
	assert.True(t, p.RemoveExclusivePartner(c2))
	assert.False(t, p.ExclusiveOk)
	assert.False(t, p.RemoveExclusivePartner(c2))

	assert.True(t, p.AddExclusivePartner(c2))
	assert.True(t, p.ExclusiveOk)
	assert.True(t, p.SetExclusivePartners(nil))
	assert.False(t, p.ExclusiveOk)
	assert.Equal(t, len(p.ExclusivePartnerIDs) > 0, p.ExclusiveOk)
}

func TestProduct_ExclusivityEvents(t *testing.T) {
	p := newTestProduct(t)
	c1, c2 := uuid.New(), uuid.New()
	p.SetExclusivePartners([]uuid.UUID{c1})
	p.ClearDomainEvents()

	p.SetExclusivePartners([]uuid.UUID{c2})
	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	ev, ok := events[0].(*ProductExclusivityChangedEvent)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{c2}, ev.AddedPartners)
	assert.Equal(t, []uuid.UUID{c1}, ev.RemovedPartners)
	assert.True(t, ev.WasExclusive)
	assert.True(t, ev.ExclusiveOk)

	p.ClearDomainEvents()
	assert.False(t, p.SetExclusivePartners([]uuid.UUID{c2, c2}))
	assert.Empty(t, p.GetDomainEvents())
}

func TestProduct_MultilineDescription(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, "[ECO-01] Compost bin", p.MultilineDescription())

	require.NoError(t, p.Update("Compost bin", "internal", "  40 litres, green  "))
	assert.Equal(t, "[ECO-01] Compost bin\n40 litres, green", p.MultilineDescription())
}

func TestProduct_Setters(t *testing.T) {
	p := newTestProduct(t)
	assert.Error(t, p.SetListPrice(decimal.NewFromInt(-1)))
	assert.NoError(t, p.SetListPrice(decimal.NewFromInt(12)))
	assert.Error(t, p.SetSubunits(-2))
	assert.NoError(t, p.SetSubunits(6))
	assert.Equal(t, 6, p.Subunits)
	assert.NoError(t, p.Deactivate())
	assert.Error(t, p.Deactivate())
	assert.NoError(t, p.Activate())
}

func TestProduct_SetReferencePrice(t *testing.T) {
	p := newTestProduct(t)
	pl := uuid.New()
	now := time.Now()

	p.SetReferencePrice(pl, decimal.NewFromInt(10), now)
	p.SetReferencePrice(pl, decimal.NewFromInt(9), now.Add(time.Minute))
	require.Len(t, p.ReferencePrices, 1)

	rp, ok := p.ReferencePriceFor(pl)
	require.True(t, ok)
	assert.True(t, rp.Price.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, p.ID, rp.ProductID)

	_, ok = p.ReferencePriceFor(uuid.New())
	assert.False(t, ok)
}
