package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/notification"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdminDirectory lists the profiles that receive admin notifications
type AdminDirectory interface {
	FindByRole(ctx context.Context, role identity.Role) ([]identity.Profile, error)
}

// AgentDirectory resolves an agent to its login profile
type AgentDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error)
}

// NotificationCreator turns domain events into inbox entries. Admins hear
// about new orders and agent applications, agents about their own orders
// and payouts.
type NotificationCreator struct {
	service *NotificationService
	admins  AdminDirectory
	agents  AgentDirectory
	logger  *zap.Logger
}

// NewNotificationCreator creates the event handler
func NewNotificationCreator(service *NotificationService, admins AdminDirectory, agents AgentDirectory, logger *zap.Logger) *NotificationCreator {
	return &NotificationCreator{service: service, admins: admins, agents: agents, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationCreator) EventTypes() []string {
	return []string{
		order.EventTypeOrderSubmitted,
		order.EventTypeOrderStatusChanged,
		agent.EventTypeAgentApplied,
		agent.EventTypePayoutCompleted,
	}
}

// Handle dispatches on the concrete event
func (h *NotificationCreator) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderSubmittedEvent:
		return h.orderSubmitted(ctx, e)
	case *order.OrderStatusChangedEvent:
		return h.orderStatusChanged(ctx, e)
	case *agent.AgentAppliedEvent:
		return h.agentApplied(ctx, e)
	case *agent.PayoutCompletedEvent:
		return h.payoutCompleted(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *NotificationCreator) orderSubmitted(ctx context.Context, e *order.OrderSubmittedEvent) error {
	channel := "agent"
	if e.IsDirectSale {
		channel = "direct"
	}
	message := fmt.Sprintf("New %s order for %s", channel, e.SalePrice.StringFixed(2))
	if e.IsBelowMSP {
		message += " (below MSP)"
	}
	return h.notifyAdmins(ctx, notification.TypeOrderSubmitted,
		"Order "+e.OrderNumber+" submitted", message, "/admin/orders/"+e.OrderID.String())
}

func (h *NotificationCreator) orderStatusChanged(ctx context.Context, e *order.OrderStatusChangedEvent) error {
	if e.AgentID == nil {
		return nil
	}
	profileID, err := h.agentProfile(ctx, *e.AgentID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Status changed from %s to %s", e.FromStatus.DisplayName(), e.ToStatus.DisplayName())
	if e.TrackingNumber != "" && e.ToStatus == order.StatusShipped {
		message += ". Tracking number " + e.TrackingNumber
	}
	if e.Reason != "" {
		message += ". Reason: " + e.Reason
	}
	return h.service.Notify(ctx, []uuid.UUID{profileID}, notification.TypeOrderStatusChanged,
		"Order "+e.OrderNumber+" is "+e.ToStatus.DisplayName(), message, "/agent/orders")
}

func (h *NotificationCreator) agentApplied(ctx context.Context, e *agent.AgentAppliedEvent) error {
	message := "Referral code " + e.ReferralCode
	if e.ParentAgentID != nil {
		message += ", referred by another agent"
	}
	return h.notifyAdmins(ctx, notification.TypeAgentApplied,
		"New agent application", message, "/admin/agents/"+e.AgentID.String())
}

func (h *NotificationCreator) payoutCompleted(ctx context.Context, e *agent.PayoutCompletedEvent) error {
	profileID, err := h.agentProfile(ctx, e.AgentID)
	if err != nil {
		return err
	}
	return h.service.Notify(ctx, []uuid.UUID{profileID}, notification.TypePayoutCompleted,
		"Payout of "+e.Amount.StringFixed(2)+" sent",
		"Paid via "+string(e.PaymentMethod), "/agent/payouts")
}

func (h *NotificationCreator) notifyAdmins(ctx context.Context, typ notification.NotificationType, title, message, link string) error {
	admins, err := h.admins.FindByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		h.logger.Warn("No admin profile to notify", zap.String("type", string(typ)))
		return nil
	}
	ids := make([]uuid.UUID, len(admins))
	for i := range admins {
		ids[i] = admins[i].ID
	}
	return h.service.Notify(ctx, ids, typ, title, message, link)
}

func (h *NotificationCreator) agentProfile(ctx context.Context, agentID uuid.UUID) (uuid.UUID, error) {
	a, err := h.agents.FindByID(ctx, agentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve agent %s: %w", agentID, err)
	}
	return a.ProfileID, nil
}

// Ensure NotificationCreator implements shared.EventHandler
var _ shared.EventHandler = (*NotificationCreator)(nil)
