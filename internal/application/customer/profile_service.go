// Package customer serves the public NFC profile pages, their vCards and QR
// codes, and lets customers edit their own page.
package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/qrcode"
	"go.uber.org/zap"
)

// ProfileService handles public profile operations
type ProfileService struct {
	customerRepo customer.CustomerRepository
	publicURL    string
	apiURL       string
	logger       *zap.Logger
}

// NewProfileService creates a new ProfileService. publicURL is the site
// hosting /p/:slug, apiURL the base of this API.
func NewProfileService(customerRepo customer.CustomerRepository, publicURL, apiURL string, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		customerRepo: customerRepo,
		publicURL:    strings.TrimRight(publicURL, "/"),
		apiURL:       strings.TrimRight(apiURL, "/"),
		logger:       logger,
	}
}

// GetPublic returns the public page for slug. Suspended profiles are not found.
func (s *ProfileService) GetPublic(ctx context.Context, slug string) (*PublicProfileResponse, error) {
	c, err := s.findPublic(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := s.toPublic(c)
	return &resp, nil
}

// VCard renders the contact card for slug
func (s *ProfileService) VCard(ctx context.Context, slug string) (*VCardFile, error) {
	c, err := s.findPublic(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &VCardFile{
		FileName: customer.VCardFileName(c.FullName),
		Content:  customer.BuildVCard(customer.ContactFromCustomer(c, s.ProfileURL(c.Slug))),
	}, nil
}

// QR renders the public profile URL as a PNG
func (s *ProfileService) QR(ctx context.Context, slug string, size int) ([]byte, error) {
	c, err := s.findPublic(ctx, slug)
	if err != nil {
		return nil, err
	}
	return qrcode.PNG(s.ProfileURL(c.Slug), size)
}

// Professions lists the funnel's profession picker with their themes
func (s *ProfileService) Professions() []customer.Profession {
	return customer.Professions()
}

// GetMine returns the caller's own profile, whatever its status
func (s *ProfileService) GetMine(ctx context.Context, profileID uuid.UUID) (*OwnProfileResponse, error) {
	c, err := s.customerRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.toOwn(c), nil
}

// UpdateMine replaces the editable fields of the caller's profile
func (s *ProfileService) UpdateMine(ctx context.Context, profileID uuid.UUID, req UpdateProfileRequest) (*OwnProfileResponse, error) {
	c, err := s.customerRepo.FindByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if c.Status == customer.CustomerStatusSuspended {
		return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "Profile has been suspended")
	}

	if err := c.UpdateProfile(customer.ProfileDetails{
		FullName:    req.FullName,
		Profession:  req.Profession,
		Designation: req.Designation,
		Company:     req.Company,
		Phone:       req.Phone,
		Email:       req.Email,
		WhatsApp:    req.WhatsApp,
		Website:     req.Website,
		Address:     req.Address,
		Bio:         req.Bio,
		PhotoURL:    req.PhotoURL,
		LogoURL:     req.LogoURL,
		Social:      req.Social,
		Theme:       req.Theme,
	}); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Customer profile updated", zap.String("slug", c.Slug))
	return s.toOwn(c), nil
}

// ProfileURL is the public page of a slug
func (s *ProfileService) ProfileURL(slug string) string {
	return s.publicURL + "/p/" + slug
}

func (s *ProfileService) findPublic(ctx context.Context, slug string) (*customer.Customer, error) {
	c, err := s.customerRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if !c.IsPublic() {
		s.logger.Debug("Suspended profile requested", zap.String("slug", slug))
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (s *ProfileService) toPublic(c *customer.Customer) PublicProfileResponse {
	theme, ok := customer.ThemeByKey(c.Theme)
	if !ok {
		theme = customer.ThemeFor(c.Profession)
	}
	vcardURL := s.apiURL + "/api/profiles/" + c.Slug + "/vcard"

	return PublicProfileResponse{
		Slug:        c.Slug,
		FullName:    c.FullName,
		Profession:  c.Profession,
		Designation: c.Designation,
		Company:     c.Company,
		Phone:       c.Phone,
		Email:       c.Email,
		Website:     c.Website,
		Address:     c.Address,
		Bio:         c.Bio,
		PhotoURL:    c.PhotoURL,
		LogoURL:     c.LogoURL,
		Social:      c.Social,
		Theme:       theme,
		Actions:     customer.ContactActions(c, vcardURL),
		ProfileURL:  s.ProfileURL(c.Slug),
		VCardURL:    vcardURL,
		QRURL:       s.apiURL + "/api/profiles/" + c.Slug + "/qr",
	}
}

func (s *ProfileService) toOwn(c *customer.Customer) *OwnProfileResponse {
	return &OwnProfileResponse{
		ID:                    c.ID,
		Status:                c.Status,
		PublicProfileResponse: s.toPublic(c),
	}
}
