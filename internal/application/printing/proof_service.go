// Package printing produces the print proof of an order when it enters the
// printing stage.
package printing

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	infra "github.com/taponce/backend/internal/infrastructure/printing"
	"github.com/taponce/backend/internal/infrastructure/qrcode"
	"go.uber.org/zap"
)

// ProofGenerator renders and stores a proof, returning its object key
type ProofGenerator interface {
	Generate(ctx context.Context, data infra.ProofData) (string, error)
}

// ProofAttacher records the proof key on the order
type ProofAttacher interface {
	AttachPrintProof(ctx context.Context, id uuid.UUID, key string) error
}

// ProofService assembles proof data from the order, its customer and design
type ProofService struct {
	orders    order.OrderRepository
	customers customer.CustomerRepository
	designs   catalog.CardDesignRepository
	generator ProofGenerator
	attacher  ProofAttacher
	publicURL string
	logger    *zap.Logger
}

// NewProofService creates a new ProofService
func NewProofService(
	orders order.OrderRepository,
	customers customer.CustomerRepository,
	designs catalog.CardDesignRepository,
	generator ProofGenerator,
	attacher ProofAttacher,
	publicURL string,
	logger *zap.Logger,
) *ProofService {
	return &ProofService{
		orders:    orders,
		customers: customers,
		designs:   designs,
		generator: generator,
		attacher:  attacher,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Generate renders the proof of an order and attaches it
func (s *ProofService) Generate(ctx context.Context, orderID uuid.UUID) (string, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	c, err := s.customers.FindByID(ctx, o.CustomerID)
	if err != nil {
		return "", fmt.Errorf("load customer: %w", err)
	}
	d, err := s.designs.FindByID(ctx, o.CardDesignID)
	if err != nil {
		return "", fmt.Errorf("load design: %w", err)
	}

	data, err := s.proofData(o, c, d)
	if err != nil {
		return "", err
	}
	key, err := s.generator.Generate(ctx, data)
	if err != nil {
		return "", err
	}
	if err := s.attacher.AttachPrintProof(ctx, o.ID, key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ProofService) proofData(o *order.Order, c *customer.Customer, d *catalog.CardDesign) (infra.ProofData, error) {
	profileURL := s.publicURL + "/p/" + c.Slug
	qr, err := qrcode.DataURI(profileURL, 256)
	if err != nil {
		return infra.ProofData{}, err
	}

	theme, ok := customer.ThemeByKey(c.Theme)
	if !ok {
		theme = customer.ThemeFor(c.Profession)
	}
	phone := c.Phone
	if e164, err := customer.NormalizePhone(c.Phone, customer.DefaultRegion); err == nil {
		phone = e164
	}

	return infra.ProofData{
		OrderNumber:     o.OrderNumber,
		DesignName:      d.Name,
		Material:        d.Material,
		FullName:        c.FullName,
		Designation:     c.Designation,
		Company:         c.Company,
		Phone:           phone,
		Email:           c.Email,
		Website:         c.Website,
		ProfileURL:      profileURL,
		QRDataURI:       template.URL(qr),
		AccentColor:     theme.AccentColor,
		Personalization: o.Personalization,
	}, nil
}

// ProofHandler generates the proof when an order moves to printing.
// Failures are logged; the order stays in printing either way.
type ProofHandler struct {
	service *ProofService
	logger  *zap.Logger
}

// NewProofHandler creates the event handler
func NewProofHandler(service *ProofService, logger *zap.Logger) *ProofHandler {
	return &ProofHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ProofHandler) EventTypes() []string {
	return []string{order.EventTypeOrderStatusChanged}
}

// Handle processes an OrderStatusChangedEvent
func (h *ProofHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*order.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderStatusChanged, event.EventType())
	}
	if changed.ToStatus != order.StatusPrinting {
		return nil
	}

	key, err := h.service.Generate(ctx, changed.OrderID)
	if err != nil {
		h.logger.Error("Print proof generation failed",
			zap.String("order_number", changed.OrderNumber),
			zap.Error(err),
		)
		return err
	}
	h.logger.Info("Print proof attached",
		zap.String("order_number", changed.OrderNumber),
		zap.String("key", key),
	)
	return nil
}

// Ensure ProofHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProofHandler)(nil)
