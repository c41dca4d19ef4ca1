package partner

import (
	"context"
	"errors"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyService manages the company hierarchy.
type CompanyService struct {
	companyRepo   partner.CompanyRepository
	pricelistRepo catalog.PricelistRepository
}

func NewCompanyService(companyRepo partner.CompanyRepository, pricelistRepo catalog.PricelistRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo, pricelistRepo: pricelistRepo}
}

// Create creates a root company, or a sub-company when ParentID is set.
func (s *CompanyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCompanyRequest) (*CompanyResponse, error) {
	var (
		company *partner.Company
		err     error
	)
	if req.ParentID != nil {
		parent, ferr := s.companyRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if ferr != nil {
			if errors.Is(ferr, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent company not found")
			}
			return nil, ferr
		}
		company, err = partner.NewSubCompany(tenantID, req.Code, req.Name, parent)
	} else {
		company, err = partner.NewCompany(tenantID, req.Code, req.Name)
	}
	if err != nil {
		return nil, err
	}
	if req.DefaultPricelistID != nil {
		if err := s.checkPricelist(ctx, tenantID, *req.DefaultPricelistID); err != nil {
			return nil, err
		}
		company.SetDefaultPricelist(req.DefaultPricelistID)
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

func (s *CompanyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

func (s *CompanyService) List(ctx context.Context, tenantID uuid.UUID) ([]CompanyResponse, error) {
	companies, err := s.companyRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out, nil
}

// SetDefaultPricelist sets the pricelist used for customers without one.
func (s *CompanyService) SetDefaultPricelist(ctx context.Context, tenantID, id uuid.UUID, pricelistID *uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if pricelistID != nil {
		if err := s.checkPricelist(ctx, tenantID, *pricelistID); err != nil {
			return nil, err
		}
	}
	company.SetDefaultPricelist(pricelistID)
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

func (s *CompanyService) checkPricelist(ctx context.Context, tenantID, pricelistID uuid.UUID) error {
	if _, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, pricelistID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PRICELIST", "Pricelist not found")
		}
		return err
	}
	return nil
}
