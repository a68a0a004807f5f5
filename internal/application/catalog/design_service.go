// Package catalog holds the card design catalog use cases.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DesignService handles card design business operations
type DesignService struct {
	designRepo catalog.CardDesignRepository
	mspRepo    catalog.AgentMspRepository
	logger     *zap.Logger
}

// NewDesignService creates a new DesignService
func NewDesignService(designRepo catalog.CardDesignRepository, mspRepo catalog.AgentMspRepository, logger *zap.Logger) *DesignService {
	return &DesignService{
		designRepo: designRepo,
		mspRepo:    mspRepo,
		logger:     logger,
	}
}

// Create creates a new active design
func (s *DesignService) Create(ctx context.Context, req CreateDesignRequest) (*DesignResponse, error) {
	design, err := catalog.NewCardDesign(req.Name, req.Material, req.BaseMSP)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.ImageURL != "" {
		if err := design.Update(design.Name, req.Description, design.Material, req.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.logger.Info("Card design created",
		zap.String("design_id", design.ID.String()),
		zap.String("name", design.Name),
		zap.String("base_msp", design.BaseMSP.StringFixed(2)),
	)
	resp := ToDesignResponse(design)
	return &resp, nil
}

// GetByID retrieves a design by ID
func (s *DesignService) GetByID(ctx context.Context, id uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDesignResponse(design)
	return &resp, nil
}

// List retrieves a list of designs with filtering and pagination
func (s *DesignService) List(ctx context.Context, filter DesignListFilter) ([]DesignResponse, int64, error) {
	// Set defaults
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	designs, err := s.designRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.designRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DesignResponse, len(designs))
	for i := range designs {
		responses[i] = ToDesignResponse(&designs[i])
	}
	return responses, total, nil
}

// Update updates a design. Nil fields are left unchanged.
func (s *DesignService) Update(ctx context.Context, id uuid.UUID, req UpdateDesignRequest) (*DesignResponse, error) {
	design, err := s.designRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := design.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := design.Description
	if req.Description != nil {
		description = *req.Description
	}
	material := design.Material
	if req.Material != nil {
		material = *req.Material
	}
	imageURL := design.ImageURL
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if err := design.Update(name, description, material, imageURL); err != nil {
		return nil, err
	}

	if req.BaseMSP != nil {
		if err := design.SetBaseMSP(*req.BaseMSP); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := design.SetStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.logger.Info("Card design updated", zap.String("design_id", design.ID.String()))
	resp := ToDesignResponse(design)
	return &resp, nil
}

// ListPublic returns active designs. When agentID is set, each design carries
// that agent's effective MSP. Orders snapshot the MSP at submit, so a change
// here never touches existing orders.
func (s *DesignService) ListPublic(ctx context.Context, agentID *uuid.UUID) ([]PublicDesignResponse, error) {
	designs, err := s.designRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	overrides := map[uuid.UUID]*catalog.AgentMsp{}
	if agentID != nil {
		msps, err := s.mspRepo.FindByAgent(ctx, *agentID)
		if err != nil {
			return nil, err
		}
		for i := range msps {
			overrides[msps[i].CardDesignID] = &msps[i]
		}
	}

	out := make([]PublicDesignResponse, len(designs))
	for i := range designs {
		d := &designs[i]
		override := overrides[d.ID]
		out[i] = PublicDesignResponse{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Material:    d.Material,
			ImageURL:    d.ImageURL,
			MSP:         catalog.ResolveMSP(d, override),
			IsOverride:  override != nil,
		}
	}
	return out, nil
}
