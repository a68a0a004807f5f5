// Package order holds the order use cases: funnel and agent submission,
// the admin status pipeline with its balance side effects, tracking and the
// Kanban board.
package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/application/transaction"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/customer"
	"github.com/taponce/backend/internal/domain/draft"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// ErrDuplicateSubmission is returned when an Idempotency-Key is replayed
var ErrDuplicateSubmission = shared.NewDomainError("CONFLICT", "This order has already been submitted")

// ErrAgentNotActive is returned when a pending or suspended agent submits
var ErrAgentNotActive = shared.NewDomainError("AGENT_NOT_ACTIVE", "Agent account is not active")

// ServiceConfig carries the commission and link settings
type ServiceConfig struct {
	Policy         order.CommissionPolicy
	CreditOverride bool
	ClaimTokenTTL  time.Duration
	IdempotencyTTL time.Duration
	PublicURL      string
}

// Repositories groups the read-side dependencies of the service
type Repositories struct {
	Orders    order.OrderRepository
	Query     order.OrderQuery
	Designs   catalog.CardDesignRepository
	Msps      catalog.AgentMspRepository
	Agents    agent.AgentRepository
	Customers customer.CustomerRepository
}

// ProofURLResolver turns a stored proof key into a download link
type ProofURLResolver interface {
	PresignDownload(ctx context.Context, key string) (string, error)
}

// OrderService handles order business operations
type OrderService struct {
	repos          Repositories
	scope          transaction.Scope
	config         ServiceConfig
	drafts         draft.Store
	idempotency    shared.IdempotencyStore
	proofs         ProofURLResolver
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(repos Repositories, scope transaction.Scope, config ServiceConfig, logger *zap.Logger) *OrderService {
	if config.ClaimTokenTTL <= 0 {
		config.ClaimTokenTTL = 72 * time.Hour
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	config.PublicURL = strings.TrimRight(config.PublicURL, "/")
	return &OrderService{
		repos:  repos,
		scope:  scope,
		config: config,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDraftStore enables draft_id on submissions
func (s *OrderService) SetDraftStore(store draft.Store) {
	s.drafts = store
}

// SetIdempotencyStore enables Idempotency-Key handling on submissions
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetProofURLResolver enables proof links on the order detail
func (s *OrderService) SetProofURLResolver(r ProofURLResolver) {
	s.proofs = r
}

// maxOrderNumberAttempts bounds the retries when a concurrent submission
// takes the generated order number first.
const maxOrderNumberAttempts = 5

// IdempotencyKey is a client Idempotency-Key together with the caller that
// sent it. Keys from different callers never collide.
type IdempotencyKey struct {
	// Caller is the authenticated profile, or the client address for the funnel
	Caller string
	Key    string
}

func (k IdempotencyKey) storeKey() string {
	caller := k.Caller
	if caller == "" {
		caller = "anonymous"
	}
	return "order-submit:" + caller + ":" + k.Key
}

// Submit creates an order from the funnel (agentID nil) or from an agent.
// The customer is resolved by email or created with a claim token.
func (s *OrderService) Submit(ctx context.Context, agentID *uuid.UUID, req SubmitOrderRequest, idem IdempotencyKey) (resp *SubmitOrderResponse, err error) {
	if idem.Key != "" && s.idempotency != nil {
		key := idem.storeKey()
		fresh, markErr := s.idempotency.MarkProcessed(ctx, key, s.config.IdempotencyTTL)
		if markErr != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", markErr)
		}
		if !fresh {
			s.logger.Warn("Duplicate order submission",
				zap.String("caller", idem.Caller),
				zap.String("idempotency_key", idem.Key),
			)
			return nil, ErrDuplicateSubmission
		}
		defer func() {
			if err != nil {
				if relErr := s.idempotency.Release(ctx, key); relErr != nil {
					s.logger.Error("Failed to release idempotency key", zap.Error(relErr))
				}
			}
		}()
	}

	if req.DraftID != nil {
		if err := s.mergeDraft(ctx, &req); err != nil {
			return nil, err
		}
	}
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	var seller *agent.Agent
	if agentID != nil {
		seller, err = s.repos.Agents.FindByID(ctx, *agentID)
		if err != nil {
			return nil, err
		}
		if !seller.IsActive() {
			return nil, ErrAgentNotActive
		}
	}

	design, err := s.repos.Designs.FindByID(ctx, *req.CardDesignID)
	if err != nil {
		return nil, err
	}
	if !design.IsActive() {
		return nil, shared.NewDomainError("DESIGN_INACTIVE", "Card design is not available")
	}

	msp := design.BaseMSP
	if seller != nil {
		override, err := s.repos.Msps.Find(ctx, seller.ID, design.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		msp = catalog.ResolveMSP(design, override)
	}

	var (
		created    *order.Order
		buyer      *customer.Customer
		claimToken string
	)
	for attempt := 1; ; attempt++ {
		created, buyer, claimToken, err = s.createOrder(ctx, seller, design, msp, req)
		if !errors.Is(err, order.ErrOrderNumberTaken) || attempt == maxOrderNumberAttempts {
			break
		}
		s.logger.Debug("Order number taken by a concurrent submission, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	if req.DraftID != nil && s.drafts != nil {
		if err := s.drafts.Delete(ctx, *req.DraftID); err != nil {
			s.logger.Warn("Failed to clear draft after submit", zap.String("draft_id", req.DraftID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Order submitted",
		zap.String("order_number", created.OrderNumber),
		zap.Bool("direct_sale", created.IsDirectSale),
		zap.Bool("below_msp", created.IsBelowMSP),
	)

	resp = &SubmitOrderResponse{
		OrderID:            created.ID,
		OrderNumber:        created.OrderNumber,
		Status:             created.Status,
		CommissionAmount:   created.CommissionAmount,
		OverrideCommission: created.OverrideCommission,
		IsBelowMSP:         created.IsBelowMSP,
		IsDirectSale:       created.IsDirectSale,
		CustomerSlug:       buyer.Slug,
		ProfileURL:         s.config.PublicURL + "/p/" + buyer.Slug,
	}
	if claimToken != "" {
		resp.ClaimURL = s.config.PublicURL + "/claim?token=" + claimToken
	}
	return resp, nil
}

// createOrder resolves the customer, numbers and stores the order in one
// transaction.
func (s *OrderService) createOrder(
	ctx context.Context,
	seller *agent.Agent,
	design *catalog.CardDesign,
	msp decimal.Decimal,
	req SubmitOrderRequest,
) (created *order.Order, buyer *customer.Customer, claimToken string, err error) {
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var txErr error
		buyer, claimToken, txErr = s.resolveCustomer(ctx, repos, req.Customer)
		if txErr != nil {
			return txErr
		}

		number, txErr := repos.Orders().GenerateOrderNumber(ctx)
		if txErr != nil {
			return txErr
		}

		params := order.NewOrderParams{
			OrderNumber:     number,
			CustomerID:      buyer.ID,
			CardDesignID:    design.ID,
			MSP:             msp,
			SalePrice:       req.SalePrice,
			Policy:          s.config.Policy,
			ConfirmBelowMSP: req.ConfirmBelowMSP,
			Personalization: req.Personalization,
			Notes:           strings.TrimSpace(req.Notes),
		}
		if req.ShippingAddress != nil {
			params.ShippingAddress = *req.ShippingAddress
		}
		if req.MarkPaid {
			params.PaymentStatus = order.PaymentPaid
		}
		if seller != nil {
			params.AgentID = &seller.ID
			params.HasParentAgent = seller.HasParent()
		}

		created, txErr = order.NewOrder(params)
		if txErr != nil {
			return txErr
		}
		return repos.Orders().Save(ctx, created)
	})
	return created, buyer, claimToken, err
}

func validateSubmission(req SubmitOrderRequest) error {
	if req.CardDesignID == nil || *req.CardDesignID == uuid.Nil {
		return shared.NewDomainError("INVALID_DESIGN", "Card design is required")
	}
	if strings.TrimSpace(req.Customer.FullName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name is required")
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email is required")
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Customer phone is required")
	}
	return nil
}

// mergeDraft fills the request fields the client left empty from the draft
func (s *OrderService) mergeDraft(ctx context.Context, req *SubmitOrderRequest) error {
	if s.drafts == nil {
		return shared.NewDomainError("INVALID_INPUT", "Drafts are not available")
	}
	d, err := s.drafts.Get(ctx, *req.DraftID)
	if err != nil {
		return err
	}
	if d.State == draft.StateCleared {
		return draft.ErrDraftCleared
	}

	if req.CardDesignID == nil {
		req.CardDesignID = d.CardDesignID
	}
	c := &req.Customer
	if c.FullName == "" {
		c.FullName = d.Contact.FullName
	}
	if c.Email == "" {
		c.Email = d.Contact.Email
	}
	if c.Phone == "" {
		c.Phone = d.Contact.Phone
	}
	if c.Company == "" {
		c.Company = d.Contact.Company
	}
	if c.Designation == "" {
		c.Designation = d.Contact.Designation
	}
	if c.Profession == "" {
		c.Profession = d.Profession
	}
	if req.ShippingAddress == nil && !d.ShippingAddress.IsEmpty() {
		addr := d.ShippingAddress
		req.ShippingAddress = &addr
	}
	if len(req.Personalization) == 0 {
		req.Personalization = d.Personalization
	}
	if d.Material != "" {
		if req.Personalization == nil {
			req.Personalization = map[string]string{}
		}
		if _, ok := req.Personalization["material"]; !ok {
			req.Personalization["material"] = d.Material
		}
	}
	return nil
}

// resolveCustomer reuses the customer behind an existing customer profile
// or creates profile and customer with a fresh claim token.
func (s *OrderService) resolveCustomer(ctx context.Context, repos transaction.Repositories, in CustomerInput) (*customer.Customer, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	profile, err := repos.Profiles().FindByEmail(ctx, email)
	switch {
	case err == nil:
		if profile.Role != identity.RoleCustomer {
			return nil, "", shared.NewDomainError("EMAIL_IN_USE", "Email belongs to a non-customer account")
		}
		existing, err := repos.Customers().FindByProfileID(ctx, profile.ID)
		if err != nil {
			return nil, "", err
		}
		return existing, "", nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, "", err
	}

	profile, err = identity.NewProfile(email, in.FullName, in.Phone, identity.RoleCustomer)
	if err != nil {
		return nil, "", err
	}
	token, err := profile.IssueClaimToken(s.config.ClaimTokenTTL)
	if err != nil {
		return nil, "", err
	}
	if err := repos.Profiles().Save(ctx, profile); err != nil {
		return nil, "", err
	}

	slug, err := customer.UniqueSlug(ctx, in.FullName, repos.Customers().ExistsBySlug)
	if err != nil {
		return nil, "", err
	}
	c, err := customer.NewCustomer(profile.ID, slug, in.FullName, in.Phone, email, in.Profession)
	if err != nil {
		return nil, "", err
	}
	c.Designation = strings.TrimSpace(in.Designation)
	c.Company = strings.TrimSpace(in.Company)
	c.WhatsApp = strings.TrimSpace(in.WhatsApp)
	c.Website = strings.TrimSpace(in.Website)
	if err := repos.Customers().Save(ctx, c); err != nil {
		return nil, "", err
	}
	return c, token, nil
}

// GetDetail returns the admin view of an order
func (s *OrderService) GetDetail(ctx context.Context, id uuid.UUID) (*OrderDetailResponse, error) {
	o, err := s.repos.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary, err := s.repos.Query.GetSummary(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var proofURL string
	if o.PrintProofKey != "" && s.proofs != nil {
		if proofURL, err = s.proofs.PresignDownload(ctx, o.PrintProofKey); err != nil {
			s.logger.Warn("Failed to presign proof download", zap.String("key", o.PrintProofKey), zap.Error(err))
			proofURL = ""
		}
	}

	detail := toDetail(o, summary, proofURL)
	return &detail, nil
}

// UpdateStatus moves an order along the pipeline and applies the balance
// effect of the move in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDetailResponse, error) {
	var moved *order.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		o, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		in := order.TransitionInput{
			TrackingNumber:     req.TrackingNumber,
			Reason:             req.Reason,
			ApprovedCommission: req.ApprovedCommission,
		}
		if req.Status == order.StatusApproved && o.IsBelowMSP && !o.IsDirectSale && in.ApprovedCommission == nil {
			amount := s.config.Policy.BelowMSPApprovalAmount()
			in.ApprovedCommission = &amount
		}

		effect, err := o.TransitionTo(req.Status, in)
		if err != nil {
			return err
		}
		if err := s.applyBalanceEffect(ctx, repos, o, effect); err != nil {
			return err
		}
		if err := s.applyDesignSales(ctx, repos, o); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}
		moved = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", moved.OrderNumber),
		zap.String("status", moved.Status.String()),
	)
	s.publish(ctx, moved)
	return s.GetDetail(ctx, id)
}

func (s *OrderService) applyBalanceEffect(ctx context.Context, repos transaction.Repositories, o *order.Order, effect order.BalanceEffect) error {
	if effect == order.BalanceUnchanged || o.AgentID == nil {
		return nil
	}

	seller, err := repos.Agents().FindByID(ctx, *o.AgentID)
	if err != nil {
		return err
	}

	// The recruiter to touch: the seller's parent when crediting, the agent
	// recorded on the order when reversing.
	var recruiterID *uuid.UUID
	switch effect {
	case order.BalanceCredit:
		if s.config.CreditOverride && seller.ParentAgentID != nil && o.OverrideCommission.IsPositive() && !o.IsOverrideCredited() {
			recruiterID = seller.ParentAgentID
		}
	case order.BalanceReverse:
		recruiterID = o.OverrideAgentID
	}

	var recruiter *agent.Agent
	if recruiterID != nil {
		if recruiter, err = repos.Agents().FindByID(ctx, *recruiterID); err != nil {
			return err
		}
	}

	switch effect {
	case order.BalanceCredit:
		if err := seller.CreditSale(o.SalePrice, o.CommissionAmount); err != nil {
			return err
		}
		if recruiter != nil {
			if err := recruiter.CreditOverride(o.OverrideCommission); err != nil {
				return err
			}
			o.CreditOverrideTo(recruiter.ID)
		}
	case order.BalanceReverse:
		if err := seller.ReverseSale(o.SalePrice, o.CommissionAmount); err != nil {
			return err
		}
		if recruiter != nil {
			if err := recruiter.ReverseOverride(o.OverrideCommission); err != nil {
				return err
			}
			o.ClearOverrideCredit()
		}
	}

	if err := repos.Agents().SaveWithLock(ctx, seller); err != nil {
		return err
	}
	if recruiter != nil && recruiter.ID != seller.ID {
		return repos.Agents().SaveWithLock(ctx, recruiter)
	}
	return nil
}

// applyDesignSales keeps the design's sales counter in step with approvals,
// for agent and direct sales alike.
func (s *OrderService) applyDesignSales(ctx context.Context, repos transaction.Repositories, o *order.Order) error {
	var record bool
	switch o.Status {
	case order.StatusApproved:
		record = true
	case order.StatusRejected, order.StatusCancelled, order.StatusReturned:
		if o.ApprovedAt == nil {
			return nil
		}
	default:
		return nil
	}

	design, err := repos.Designs().FindByID(ctx, o.CardDesignID)
	if err != nil {
		return err
	}
	if record {
		design.RecordSale()
	} else {
		design.ReverseSale()
	}
	return repos.Designs().Save(ctx, design)
}

// UpdatePayment sets the payment status without moving the pipeline
func (s *OrderService) UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*OrderDetailResponse, error) {
	o, err := s.repos.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.UpdatePaymentStatus(req.PaymentStatus); err != nil {
		return nil, err
	}
	if err := s.repos.Orders.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	return s.GetDetail(ctx, id)
}

// AttachPrintProof records the proof key on the order
func (s *OrderService) AttachPrintProof(ctx context.Context, id uuid.UUID, key string) error {
	o, err := s.repos.Orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	o.AttachPrintProof(key)
	return s.repos.Orders.Save(ctx, o)
}

// Track returns the public status of an order. The phone must match the
// customer's; a mismatch is reported as not found.
func (s *OrderService) Track(ctx context.Context, orderNumber, phone string) (*TrackResponse, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	if orderNumber == "" || strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order number and phone are required")
	}

	o, err := s.repos.Orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	buyer, err := s.repos.Customers.FindByID(ctx, o.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.SamePhone(buyer.Phone, phone) {
		return nil, shared.ErrNotFound
	}

	return &TrackResponse{
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		TrackingNumber: o.TrackingNumber,
		Timeline:       o.Timeline(),
		PlacedAt:       o.CreatedAt,
	}, nil
}

// ListForAgent lists an agent's own orders
func (s *OrderService) ListForAgent(ctx context.Context, agentID uuid.UUID, filter ListOrdersFilter) (shared.Paginated[OrderListItem], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}

	orders, err := s.repos.Orders.FindByAgent(ctx, agentID, domainFilter)
	if err != nil {
		return shared.Paginated[OrderListItem]{}, err
	}
	total, err := s.repos.Orders.CountByAgent(ctx, agentID, domainFilter)
	if err != nil {
		return shared.Paginated[OrderListItem]{}, err
	}

	items := make([]OrderListItem, len(orders))
	for i := range orders {
		items[i] = ToOrderListItem(&orders[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Export writes the filtered orders to w as a spreadsheet
func (s *OrderService) Export(ctx context.Context, w io.Writer, filter ExportFilter) error {
	rows, err := s.repos.Query.ListSummaries(ctx, order.SummaryFilter{
		Status: filter.Status,
		From:   filter.From,
		To:     filter.To,
	})
	if err != nil {
		return err
	}
	return export.WriteOrders(w, rows)
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}
