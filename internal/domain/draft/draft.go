// Package draft holds the typed order context the funnel builds up before
// checkout. Drafts are short lived and live outside the relational store.
package draft

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
)

// State is the lifecycle position of a draft
type State string

const (
	StateCreated State = "created"
	StateUpdated State = "updated"
	StateCleared State = "cleared"
)

// ErrDraftCleared is returned when a cleared draft is modified
var ErrDraftCleared = shared.NewDomainError("INVALID_STATE", "Draft has already been cleared")

// Contact is the buyer information captured at checkout
type Contact struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// DraftOrder is the funnel state between profession selection and submit
type DraftOrder struct {
	ID              uuid.UUID             `json:"id"`
	State           State                 `json:"state"`
	Profession      string                `json:"profession,omitempty"`
	CardDesignID    *uuid.UUID            `json:"card_design_id,omitempty"`
	Material        string                `json:"material,omitempty"`
	Personalization map[string]string     `json:"personalization,omitempty"`
	Contact         Contact               `json:"contact"`
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
	ReferralCode    string                `json:"referral_code,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// New starts a draft at funnel entry
func New(profession string) *DraftOrder {
	now := time.Now()
	return &DraftOrder{
		ID:              uuid.New(),
		State:           StateCreated,
		Profession:      strings.TrimSpace(profession),
		Personalization: map[string]string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Patch is a partial update. Nil fields are left alone.
type Patch struct {
	Profession      *string                `json:"profession"`
	CardDesignID    *uuid.UUID             `json:"card_design_id"`
	Material        *string                `json:"material"`
	Personalization map[string]string      `json:"personalization"`
	Contact         *Contact               `json:"contact"`
	ShippingAddress *order.ShippingAddress `json:"shipping_address"`
	ReferralCode    *string                `json:"referral_code"`
}

// Apply merges a patch into the draft. Personalization keys are merged and
// an empty value deletes the key.
func (d *DraftOrder) Apply(p Patch) error {
	if d.State == StateCleared {
		return ErrDraftCleared
	}
	if p.Profession != nil {
		d.Profession = strings.TrimSpace(*p.Profession)
	}
	if p.CardDesignID != nil {
		id := *p.CardDesignID
		d.CardDesignID = &id
	}
	if p.Material != nil {
		d.Material = strings.TrimSpace(*p.Material)
	}
	if d.Personalization == nil {
		d.Personalization = map[string]string{}
	}
	for k, v := range p.Personalization {
		if v == "" {
			delete(d.Personalization, k)
			continue
		}
		d.Personalization[k] = v
	}
	if p.Contact != nil {
		d.Contact = *p.Contact
	}
	if p.ShippingAddress != nil {
		d.ShippingAddress = *p.ShippingAddress
	}
	if p.ReferralCode != nil {
		d.ReferralCode = strings.ToUpper(strings.TrimSpace(*p.ReferralCode))
	}
	d.State = StateUpdated
	d.UpdatedAt = time.Now()
	return nil
}

// Clear ends the draft lifecycle
func (d *DraftOrder) Clear() {
	d.State = StateCleared
	d.UpdatedAt = time.Now()
}

// ReadyForCheckout reports whether the draft has what submit needs
func (d *DraftOrder) ReadyForCheckout() bool {
	return d.State != StateCleared &&
		d.CardDesignID != nil &&
		strings.TrimSpace(d.Contact.FullName) != "" &&
		strings.TrimSpace(d.Contact.Phone) != ""
}

// Store keeps drafts with an expiry
type Store interface {
	Save(ctx context.Context, d *DraftOrder, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*DraftOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
