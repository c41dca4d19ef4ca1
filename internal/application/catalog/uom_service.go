package catalog

import (
	"context"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UomService manages units of measure.
type UomService struct {
	uomRepo catalog.UomRepository
}

func NewUomService(uomRepo catalog.UomRepository) *UomService {
	return &UomService{uomRepo: uomRepo}
}

func (s *UomService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUomRequest) (*UomResponse, error) {
	rounding := decimal.Zero
	if req.Rounding != nil {
		rounding = *req.Rounding
	}
	uom, err := catalog.NewUnitOfMeasure(tenantID, req.Name, req.Category, req.Factor, rounding)
	if err != nil {
		return nil, err
	}
	if err := s.uomRepo.Save(ctx, uom); err != nil {
		return nil, err
	}
	response := ToUomResponse(uom)
	return &response, nil
}

func (s *UomService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UomResponse, error) {
	uom, err := s.uomRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToUomResponse(uom)
	return &response, nil
}

func (s *UomService) List(ctx context.Context, tenantID uuid.UUID) ([]UomResponse, error) {
	uoms, err := s.uomRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]UomResponse, len(uoms))
	for i := range uoms {
		out[i] = ToUomResponse(&uoms[i])
	}
	return out, nil
}
