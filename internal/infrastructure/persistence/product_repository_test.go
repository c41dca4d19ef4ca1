package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	db       *gorm.DB
	tenantID uuid.UUID
	uomID    uuid.UUID
	products *GormProductRepository
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	db := setupTestDB(t)
	return &catalogFixture{
		db:       db,
		tenantID: uuid.New(),
		uomID:    uuid.New(),
		products: NewGormProductRepository(db),
	}
}

func (f *catalogFixture) product(t *testing.T, code string, mutate func(p *catalog.Product)) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.tenantID, code, "Product "+code, f.uomID)
	require.NoError(t, err)
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func TestGormProductRepository_SaveAndLoadExclusivePartners(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	c1, c2 := uuid.New(), uuid.New()

	p := f.product(t, "P1", func(p *catalog.Product) {
		p.SetExclusivePartners([]uuid.UUID{c1, c2})
	})

	loaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, loaded.ExclusiveOk)
	assert.ElementsMatch(t, []uuid.UUID{c1, c2}, loaded.ExclusivePartnerIDs)

	t.Run("save rewrites the relation rows", func(t *testing.T) {
		loaded.RemoveExclusivePartner(c1)
		require.NoError(t, f.products.Save(ctx, loaded))

		again, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c2}, again.ExclusivePartnerIDs)
		assert.True(t, again.ExclusiveOk)
	})

	t.Run("clearing the allow-list clears the flag", func(t *testing.T) {
		loaded.SetExclusivePartners(nil)
		require.NoError(t, f.products.Save(ctx, loaded))

		again, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
		require.NoError(t, err)
		assert.Empty(t, again.ExclusivePartnerIDs)
		assert.False(t, again.ExclusiveOk)
	})

	t.Run("other tenants cannot see the product", func(t *testing.T) {
		_, err := f.products.FindByIDForTenant(ctx, uuid.New(), p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_SaveKeepsSaleOkFalse(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	p := f.product(t, "NOSALE", func(p *catalog.Product) { p.SetSaleOk(false) })

	loaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.False(t, loaded.SaleOk)

	got, err := f.products.FindByCriteria(ctx, f.tenantID, catalog.ProductCriteria{SaleOkOnly: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormProductRepository_FindByCriteria(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	other := uuid.New()

	mine := f.product(t, "MINE", func(p *catalog.Product) { p.SetExclusivePartners([]uuid.UUID{customer}) })
	theirs := f.product(t, "THEIRS", func(p *catalog.Product) { p.SetExclusivePartners([]uuid.UUID{other}) })
	open := f.product(t, "OPEN", nil)
	f.product(t, "NOSALE", func(p *catalog.Product) { p.SetSaleOk(false) })
	f.product(t, "ARCHIVED", func(p *catalog.Product) { require.NoError(t, p.Deactivate()) })

	t.Run("customer allow-list", func(t *testing.T) {
		criteria, err := catalog.SelectionDomain([]uuid.UUID{mine.ID}).Resolve(ctx, f.tenantID, NewHierarchyResolver(f.db))
		require.NoError(t, err)

		got, err := f.products.FindByCriteria(ctx, f.tenantID, criteria)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{mine.ID, open.ID}, productIDs(got))
	})

	t.Run("no customer only admits non exclusive products", func(t *testing.T) {
		criteria, err := catalog.SelectionDomain(nil).Resolve(ctx, f.tenantID, NewHierarchyResolver(f.db))
		require.NoError(t, err)

		got, err := f.products.FindByCriteria(ctx, f.tenantID, criteria)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{open.ID}, productIDs(got))
	})

	t.Run("exclusive only", func(t *testing.T) {
		got, err := f.products.FindByCriteria(ctx, f.tenantID, catalog.ProductCriteria{
			SaleOkOnly:  true,
			Exclusivity: catalog.ExclusivityOnly,
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{mine.ID, theirs.ID}, productIDs(got))
	})

	t.Run("empty restriction matches nothing", func(t *testing.T) {
		got, err := f.products.FindByCriteria(ctx, f.tenantID, catalog.ProductCriteria{FilterProducts: true})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGormProductRepository_FindByCriteria_Hierarchies(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	categories := NewGormCategoryRepository(f.db)
	companies := NewGormCompanyRepository(f.db)

	root, err := catalog.NewCategory(f.tenantID, "ROOT", "Root")
	require.NoError(t, err)
	child, err := catalog.NewChildCategory(f.tenantID, "CHILD", "Child", root)
	require.NoError(t, err)
	sibling, err := catalog.NewCategory(f.tenantID, "SIB", "Sibling")
	require.NoError(t, err)
	for _, c := range []*catalog.Category{root, child, sibling} {
		require.NoError(t, categories.Save(ctx, c))
	}

	holding, err := partner.NewCompany(f.tenantID, "HOLD", "Holding")
	require.NoError(t, err)
	branch, err := partner.NewSubCompany(f.tenantID, "BR", "Branch", holding)
	require.NoError(t, err)
	elsewhere, err := partner.NewCompany(f.tenantID, "ELSE", "Elsewhere")
	require.NoError(t, err)
	for _, c := range []*partner.Company{holding, branch, elsewhere} {
		require.NoError(t, companies.Save(ctx, c))
	}

	inChild := f.product(t, "A", func(p *catalog.Product) { p.SetCategory(&child.ID); p.SetCompany(&branch.ID) })
	inRoot := f.product(t, "B", func(p *catalog.Product) { p.SetCategory(&root.ID) })
	f.product(t, "C", func(p *catalog.Product) { p.SetCategory(&sibling.ID) })
	f.product(t, "D", func(p *catalog.Product) { p.SetCategory(&child.ID); p.SetCompany(&elsewhere.ID) })

	domain := catalog.ProductDomain{
		SaleOkOnly:      true,
		Exclusivity:     catalog.ExclusivityNone,
		CategoryChildOf: []uuid.UUID{root.ID},
		CompanyChildOf:  &holding.ID,
	}
	criteria, err := domain.Resolve(ctx, f.tenantID, NewHierarchyResolver(f.db))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{root.ID, child.ID}, criteria.CategoryIDs)
	assert.ElementsMatch(t, []uuid.UUID{holding.ID, branch.ID}, criteria.CompanyIDs)

	got, err := f.products.FindByCriteria(ctx, f.tenantID, criteria)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{inChild.ID, inRoot.ID}, productIDs(got))
}

func TestGormProductRepository_ReferencePrices(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	pricelistID := uuid.New()

	p := f.product(t, "REF", func(p *catalog.Product) {
		p.SetReferencePrice(pricelistID, decimal.NewFromInt(10), time.Now())
	})

	loaded, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	require.Len(t, loaded.ReferencePrices, 1)
	assert.True(t, loaded.ReferencePrices[0].Price.Equal(decimal.NewFromInt(10)))

	loaded.SetReferencePrice(pricelistID, decimal.NewFromInt(12), time.Now())
	require.NoError(t, f.products.Save(ctx, loaded))

	again, err := f.products.FindByIDForTenant(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	require.Len(t, again.ReferencePrices, 1)
	ref, ok := again.ReferencePriceFor(pricelistID)
	require.True(t, ok)
	assert.True(t, ref.Price.Equal(decimal.NewFromInt(12)))
}

func TestGormProductRepository_FindAllForTenant(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	f.product(t, "CHAIR", nil)
	table := f.product(t, "TABLE", func(p *catalog.Product) { p.SetExclusivePartners([]uuid.UUID{customer}) })
	f.product(t, "LAMP", nil)

	t.Run("paginates and counts", func(t *testing.T) {
		got, total, err := f.products.FindAllForTenant(ctx, f.tenantID, shared.Filter{Page: 1, PageSize: 2, OrderBy: "code", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 2)
		assert.Equal(t, "CHAIR", got[0].Code)
		assert.Equal(t, "LAMP", got[1].Code)
	})

	t.Run("searches code and name", func(t *testing.T) {
		got, total, err := f.products.FindAllForTenant(ctx, f.tenantID, shared.Filter{Search: "tab"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []uuid.UUID{table.ID}, productIDs(got))
	})

	t.Run("filters by exclusive partner", func(t *testing.T) {
		got, _, err := f.products.FindAllForTenant(ctx, f.tenantID, shared.Filter{
			Filters: map[string]any{"exclusive_partner_id": customer},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{table.ID}, productIDs(got))
	})
}

func TestGormProductRepository_ExistsAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	p := f.product(t, "DEL", func(p *catalog.Product) { p.SetExclusivePartners([]uuid.UUID{uuid.New()}) })

	exists, err := f.products.ExistsByCode(ctx, f.tenantID, "del")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, f.products.DeleteForTenant(ctx, f.tenantID, p.ID))
	assert.ErrorIs(t, f.products.DeleteForTenant(ctx, f.tenantID, p.ID), shared.ErrNotFound)

	var rels int64
	require.NoError(t, f.db.Table("product_template_exclusive_partner_rel").Count(&rels).Error)
	assert.Zero(t, rels)
}

func productIDs(products []catalog.Product) []uuid.UUID {
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}
