package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrImportRejected is returned when an exclusivity import references
// unknown products or customers. Nothing is written in that case.
var ErrImportRejected = shared.NewDomainError("IMPORT_REJECTED", "Import references unknown products or customers")

// ExclusivityAssignment allows one customer to buy one product. Row is the
// source line of the assignment, used in error reports.
type ExclusivityAssignment struct {
	Row        int
	ProductID  uuid.UUID
	CustomerID uuid.UUID
}

// ImportExclusivityOptions controls how assignments are applied.
type ImportExclusivityOptions struct {
	// Replace makes the imported customers the whole allow-list of each
	// listed product instead of adding to it.
	Replace bool
	DryRun  bool
}

// UnknownReference is an assignment pointing at a missing record.
type UnknownReference struct {
	Row    int       `json:"row"`
	Column string    `json:"column"`
	Value  uuid.UUID `json:"value"`
}

// ImportExclusivityResult summarises an exclusivity import.
type ImportExclusivityResult struct {
	Assignments int                `json:"assignments"`
	Products    int                `json:"products"`
	Changed     []uuid.UUID        `json:"changed"`
	Unknown     []UnknownReference `json:"unknown,omitempty"`
	DryRun      bool               `json:"dry_run"`
}

// ImportAssignments applies many assignments at once. Products are edited in
// one transaction; any unknown reference rejects the whole import.
func (s *ExclusivityService) ImportAssignments(ctx context.Context, tenantID uuid.UUID, rows []ExclusivityAssignment, opts ImportExclusivityOptions) (*ImportExclusivityResult, error) {
	result := &ImportExclusivityResult{
		Assignments: len(rows),
		Changed:     []uuid.UUID{},
		DryRun:      opts.DryRun,
	}

	var order []uuid.UUID
	partners := make(map[uuid.UUID][]uuid.UUID)
	firstRow := make(map[uuid.UUID]int)
	knownCustomers := make(map[uuid.UUID]bool)
	for _, r := range rows {
		known, seen := knownCustomers[r.CustomerID]
		if !seen {
			_, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, r.CustomerID)
			switch {
			case err == nil:
				known = true
			case errors.Is(err, shared.ErrNotFound):
			default:
				return nil, err
			}
			knownCustomers[r.CustomerID] = known
		}
		if !known {
			result.Unknown = append(result.Unknown, UnknownReference{Row: r.Row, Column: "customer_id", Value: r.CustomerID})
		}
		if _, ok := partners[r.ProductID]; !ok {
			order = append(order, r.ProductID)
			firstRow[r.ProductID] = r.Row
		}
		partners[r.ProductID] = append(partners[r.ProductID], r.CustomerID)
	}
	result.Products = len(order)

	var changed []*catalog.Product
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		for _, id := range order {
			product, err := products.FindByIDForTenant(ctx, tenantID, id)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					result.Unknown = append(result.Unknown, UnknownReference{Row: firstRow[id], Column: "product_id", Value: id})
					continue
				}
				return err
			}
			if !applyAssignments(product, partners[id], opts.Replace) {
				continue
			}
			result.Changed = append(result.Changed, product.ID)
			if opts.DryRun {
				continue
			}
			if err := products.Save(ctx, product); err != nil {
				return fmt.Errorf("save product %s: %w", id, err)
			}
			changed = append(changed, product)
		}
		if len(result.Unknown) > 0 {
			return ErrImportRejected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrImportRejected) {
			result.Changed = []uuid.UUID{}
			return result, err
		}
		s.logger.Error("failed to import exclusivity assignments",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	for _, p := range changed {
		publishEvents(ctx, s.eventPublisher, s.logger, p)
	}
	s.logger.Info("exclusivity assignments imported",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("assignments", result.Assignments),
		zap.Int("products", result.Products),
		zap.Int("changed", len(result.Changed)),
		zap.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}

func applyAssignments(product *catalog.Product, customers []uuid.UUID, replace bool) bool {
	if replace {
		return product.SetExclusivePartners(customers)
	}
	changed := false
	for _, id := range customers {
		if product.AddExclusivePartner(id) {
			changed = true
		}
	}
	return changed
}
