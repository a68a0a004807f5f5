// Package draft serves the funnel's draft-order context.
package draft

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/draft"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultTTL is how long an untouched draft survives
const DefaultTTL = 72 * time.Hour

// CreateDraftRequest starts a draft at funnel entry
type CreateDraftRequest struct {
	Profession   string `json:"profession" binding:"max=50"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=20"`
}

// DraftResponse is a draft plus whether it can be submitted as is
type DraftResponse struct {
	*draft.DraftOrder
	ReadyForCheckout bool      `json:"ready_for_checkout"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// DraftService handles draft-order operations
type DraftService struct {
	store   draft.Store
	designs catalog.CardDesignRepository
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDraftService creates a new DraftService. A zero ttl uses DefaultTTL.
func NewDraftService(store draft.Store, designs catalog.CardDesignRepository, ttl time.Duration, logger *zap.Logger) *DraftService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DraftService{store: store, designs: designs, ttl: ttl, logger: logger}
}

// Create starts a new draft
func (s *DraftService) Create(ctx context.Context, req CreateDraftRequest) (*DraftResponse, error) {
	d := draft.New(req.Profession)
	if req.ReferralCode != "" {
		if err := d.Apply(draft.Patch{ReferralCode: &req.ReferralCode}); err != nil {
			return nil, err
		}
		// A fresh draft stays "created" until the buyer edits it
		d.State = draft.StateCreated
	}
	if err := s.store.Save(ctx, d, s.ttl); err != nil {
		return nil, err
	}
	s.logger.Debug("Draft created", zap.String("draft_id", d.ID.String()))
	return s.toResponse(d), nil
}

// Get loads a draft. Expired drafts are not found.
func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (*DraftResponse, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

// Update merges a patch and refreshes the expiry
func (s *DraftService) Update(ctx context.Context, id uuid.UUID, patch draft.Patch) (*DraftResponse, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Check if the chosen design exists and is for sale
	if patch.CardDesignID != nil {
		design, err := s.designs.FindByID(ctx, *patch.CardDesignID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_DESIGN", "Card design does not exist")
			}
			return nil, err
		}
		if !design.IsActive() {
			return nil, shared.NewDomainError("DESIGN_INACTIVE", "Card design is no longer available")
		}
	}

	if err := d.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, d, s.ttl); err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

// Delete clears a draft explicitly
func (s *DraftService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *DraftService) toResponse(d *draft.DraftOrder) *DraftResponse {
	return &DraftResponse{
		DraftOrder:       d,
		ReadyForCheckout: d.ReadyForCheckout(),
		ExpiresAt:        d.UpdatedAt.Add(s.ttl),
	}
}
