package catalog

import (
	"context"
	"testing"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExclusivityService_ImportAssignments(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("adds customers per product", func(t *testing.T) {
		f := newExclusivityFixture()
		alice := newTestCustomer(t, tenantID)
		bob := newTestCustomer(t, tenantID)
		p1 := newTestProduct(t, tenantID, "P1", alice.ID)
		p2 := newTestProduct(t, tenantID, "P2")

		f.customers.On("FindByIDForTenant", ctx, tenantID, alice.ID).Return(alice, nil).Once()
		f.customers.On("FindByIDForTenant", ctx, tenantID, bob.ID).Return(bob, nil).Once()
		f.products.On("FindByIDForTenant", ctx, tenantID, p1.ID).Return(p1, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, p2.ID).Return(p2, nil)
		f.products.On("Save", ctx, mock.Anything).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.service.ImportAssignments(ctx, tenantID, []ExclusivityAssignment{
			{Row: 2, ProductID: p1.ID, CustomerID: alice.ID},
			{Row: 3, ProductID: p1.ID, CustomerID: bob.ID},
			{Row: 4, ProductID: p2.ID, CustomerID: bob.ID},
		}, ImportExclusivityOptions{})
		require.NoError(t, err)

		assert.Equal(t, 3, result.Assignments)
		assert.Equal(t, 2, result.Products)
		assert.Equal(t, []uuid.UUID{p1.ID, p2.ID}, result.Changed)
		assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, p1.ExclusivePartnerIDs)
		assert.True(t, p2.ExclusiveOk)
		f.products.AssertNumberOfCalls(t, "Save", 2)
		f.customers.AssertNumberOfCalls(t, "FindByIDForTenant", 2)
	})

	t.Run("replace drops customers not listed", func(t *testing.T) {
		f := newExclusivityFixture()
		alice := newTestCustomer(t, tenantID)
		bob := newTestCustomer(t, tenantID)
		product := newTestProduct(t, tenantID, "P1", alice.ID)

		f.customers.On("FindByIDForTenant", ctx, tenantID, bob.ID).Return(bob, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		f.products.On("Save", ctx, product).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := f.service.ImportAssignments(ctx, tenantID, []ExclusivityAssignment{
			{Row: 2, ProductID: product.ID, CustomerID: bob.ID},
		}, ImportExclusivityOptions{Replace: true})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bob.ID}, product.ExclusivePartnerIDs)
	})

	t.Run("dry run reports changes without saving", func(t *testing.T) {
		f := newExclusivityFixture()
		alice := newTestCustomer(t, tenantID)
		product := newTestProduct(t, tenantID, "P1")

		f.customers.On("FindByIDForTenant", ctx, tenantID, alice.ID).Return(alice, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		result, err := f.service.ImportAssignments(ctx, tenantID, []ExclusivityAssignment{
			{Row: 2, ProductID: product.ID, CustomerID: alice.ID},
		}, ImportExclusivityOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, []uuid.UUID{product.ID}, result.Changed)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("unknown references reject the import", func(t *testing.T) {
		f := newExclusivityFixture()
		alice := newTestCustomer(t, tenantID)
		ghostCustomer := uuid.New()
		ghostProduct := uuid.New()
		product := newTestProduct(t, tenantID, "P1")

		f.customers.On("FindByIDForTenant", ctx, tenantID, alice.ID).Return(alice, nil)
		f.customers.On("FindByIDForTenant", ctx, tenantID, ghostCustomer).Return(nil, shared.ErrNotFound)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, ghostProduct).Return(nil, shared.ErrNotFound)
		f.products.On("Save", ctx, mock.Anything).Return(nil)

		result, err := f.service.ImportAssignments(ctx, tenantID, []ExclusivityAssignment{
			{Row: 2, ProductID: product.ID, CustomerID: ghostCustomer},
			{Row: 3, ProductID: ghostProduct, CustomerID: alice.ID},
		}, ImportExclusivityOptions{})
		require.ErrorIs(t, err, ErrImportRejected)
		require.NotNil(t, result)
		assert.Equal(t, []UnknownReference{
			{Row: 2, Column: "customer_id", Value: ghostCustomer},
			{Row: 3, Column: "product_id", Value: ghostProduct},
		}, result.Unknown)
		assert.Empty(t, result.Changed)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
