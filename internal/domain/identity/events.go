package identity

import (
	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/shared"
)

// AggregateTypeProfile is the aggregate type name used on events
const AggregateTypeProfile = "Profile"

// EventTypeProfileClaimed is raised when a customer sets a password from a claim link
const EventTypeProfileClaimed = "ProfileClaimed"

// ProfileClaimedEvent is raised when a profile is claimed
type ProfileClaimedEvent struct {
	shared.BaseDomainEvent
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}

// NewProfileClaimedEvent creates a new ProfileClaimedEvent
func NewProfileClaimedEvent(p *Profile) *ProfileClaimedEvent {
	return &ProfileClaimedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfileClaimed, AggregateTypeProfile, p.ID),
		ProfileID:       p.ID,
		Email:           p.Email,
		Role:            p.Role,
	}
}
