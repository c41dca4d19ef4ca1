package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByIDForTenant_SQL(t *testing.T) {
	t.Run("loads the customer and its reserved products", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 AND tenant_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, tenantID.String(), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "version"}).
				AddRow(customerID, tenantID, "C001", "Acme", 1))
		mock.ExpectQuery(`SELECT \* FROM "product_template_exclusive_partner_rel" WHERE partner_id IN \(\$1\) ORDER BY product_tmpl_id ASC`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"product_tmpl_id", "partner_id"}).
				AddRow(productID, customerID))

		customer, err := repo.FindByIDForTenant(context.Background(), tenantID, customerID)
		require.NoError(t, err)
		assert.Equal(t, "C001", customer.Code)
		assert.Equal(t, []uuid.UUID{productID}, customer.ExclusiveProductIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "customers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_InverseSideFollowsProducts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	customers := NewGormCustomerRepository(db)
	products := NewGormProductRepository(db)

	customer, err := partner.NewCustomer(tenantID, "C001", "Acme")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, customer))

	p, err := catalog.NewProduct(tenantID, "P1", "Bed", uuid.New())
	require.NoError(t, err)
	p.AddExclusivePartner(customer.ID)
	require.NoError(t, products.Save(ctx, p))

	loaded, err := customers.FindByIDForTenant(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.ID}, loaded.ExclusiveProductIDs)
	assert.True(t, loaded.AllowsProduct(p.ID))

	t.Run("saving the customer leaves the relation alone", func(t *testing.T) {
		require.NoError(t, loaded.Rename("Acme Care"))
		loaded.ExclusiveProductIDs = nil
		require.NoError(t, customers.Save(ctx, loaded))

		again, err := customers.FindByIDForTenant(ctx, tenantID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Care", again.Name)
		assert.Equal(t, []uuid.UUID{p.ID}, again.ExclusiveProductIDs)
	})

	t.Run("lists with search", func(t *testing.T) {
		other, err := partner.NewCustomer(tenantID, "C002", "Globex")
		require.NoError(t, err)
		require.NoError(t, customers.Save(ctx, other))

		got, total, err := customers.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "glob"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, other.ID, got[0].ID)
	})
}
