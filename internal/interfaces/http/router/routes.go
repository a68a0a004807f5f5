package router

import (
	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/interfaces/http/handler"
	"github.com/taponce/backend/internal/interfaces/http/middleware"
)

// Handlers groups every HTTP handler the API mounts
type Handlers struct {
	Auth         *handler.AuthHandler
	Agent        *handler.AgentHandler
	AgentPortal  *handler.AgentPortalHandler
	Payout       *handler.PayoutHandler
	Order        *handler.OrderHandler
	Board        *handler.BoardHandler
	Design       *handler.DesignHandler
	Expense      *handler.ExpenseHandler
	Notification *handler.NotificationHandler
	Upload       *handler.UploadHandler
	Profile      *handler.ProfileHandler
	Draft        *handler.DraftHandler
	System       *handler.SystemHandler
}

// Guards are the authentication middlewares the route groups share.
// PublicLimit and AfterAuth may be nil.
type Guards struct {
	// Authenticate rejects requests without a valid access token
	Authenticate gin.HandlerFunc
	// Identify reads a token when one is sent and never rejects
	Identify gin.HandlerFunc
	// PublicLimit throttles unauthenticated write endpoints
	PublicLimit gin.HandlerFunc
	// AfterAuth runs once the principal is known, e.g. span attributes
	AfterAuth gin.HandlerFunc
}

// DomainGroups builds the route groups of the TapOnce API
func DomainGroups(h Handlers, g Guards) []RouteRegistrar {
	authed := func(extra ...gin.HandlerFunc) []gin.HandlerFunc {
		return append([]gin.HandlerFunc{g.Authenticate, g.AfterAuth}, extra...)
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", g.PublicLimit, h.Auth.Login)
	authRoutes.POST("/refresh", g.PublicLimit, h.Auth.Refresh)
	authRoutes.POST("/logout", append(authed(), h.Auth.Logout)...)
	authRoutes.GET("/me", append(authed(), h.Auth.Me)...)
	authRoutes.GET("/claim-account", g.PublicLimit, h.Auth.ValidateClaim)
	authRoutes.POST("/claim-account", g.PublicLimit, h.Auth.CompleteClaim)

	agentRoutes := NewDomainGroup("agents", "/agents")
	agentRoutes.POST("/apply", g.PublicLimit, h.Agent.Apply)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/submit", g.PublicLimit, g.Identify, g.AfterAuth, h.Order.Submit)
	orderRoutes.GET("/track", g.PublicLimit, h.Order.Track)

	catalogRoutes := NewDomainGroup("catalog", "/designs")
	catalogRoutes.GET("", g.Identify, g.AfterAuth, h.Design.ListPublic)

	draftRoutes := NewDomainGroup("drafts", "/drafts").Use(g.PublicLimit)
	draftRoutes.POST("", h.Draft.Create)
	draftRoutes.GET("/:id", h.Draft.Get)
	draftRoutes.PATCH("/:id", h.Draft.Update)
	draftRoutes.DELETE("/:id", h.Draft.Delete)

	profileRoutes := NewDomainGroup("profiles", "/profiles")
	profileRoutes.GET("/:slug", h.Profile.GetPublic)
	profileRoutes.GET("/:slug/vcard", h.Profile.VCard)
	profileRoutes.GET("/:slug/qr", h.Profile.QR)

	professionRoutes := NewDomainGroup("professions", "/professions")
	professionRoutes.GET("", h.Profile.Professions)

	ownProfileRoutes := NewDomainGroup("profile", "/profile").
		Use(authed(middleware.RequireRole(identity.RoleCustomer))...)
	ownProfileRoutes.GET("/me", h.Profile.GetMine)
	ownProfileRoutes.PUT("/me", h.Profile.UpdateMine)

	notificationRoutes := NewDomainGroup("notifications", "/notifications").Use(authed()...)
	notificationRoutes.GET("", h.Notification.List)
	notificationRoutes.POST("/:id/read", h.Notification.MarkRead)

	uploadRoutes := NewDomainGroup("uploads", "/uploads").Use(authed()...)
	uploadRoutes.POST("/presign", h.Upload.Presign)

	portalRoutes := NewDomainGroup("agent", "/agent").Use(authed(middleware.RequireAgent())...)
	portalRoutes.GET("/dashboard", h.AgentPortal.Dashboard)
	portalRoutes.GET("/orders", h.AgentPortal.Orders)
	portalRoutes.GET("/network", h.AgentPortal.Network)
	portalRoutes.GET("/referral/qr", h.AgentPortal.ReferralQR)
	portalRoutes.GET("/payouts", h.AgentPortal.Payouts)
	portalRoutes.POST("/payouts", h.AgentPortal.RequestPayout)

	adminRoutes := NewDomainGroup("admin", "/admin").Use(authed(middleware.RequireAdmin())...)

	adminAgents := adminRoutes.Group("admin-agents", "/agents")
	adminAgents.GET("", h.Agent.List)
	adminAgents.POST("", h.Agent.Create)
	adminAgents.GET("/:id", h.Agent.Get)
	adminAgents.PATCH("/:id", h.Agent.Update)
	adminAgents.GET("/:id/msp", h.Agent.GetMSP)
	adminAgents.PUT("/:id/msp", h.Agent.SetMSP)
	adminAgents.GET("/:id/balance-audit", h.Agent.BalanceAudit)

	adminOrders := adminRoutes.Group("admin-orders", "/orders")
	adminOrders.GET("/board", h.Board.Load)
	adminOrders.PUT("/board/moves", h.Board.ApplyMoves)
	adminOrders.GET("/export", h.Order.Export)
	adminOrders.GET("/:id", h.Order.Get)
	adminOrders.PUT("/:id/status", h.Order.UpdateStatus)
	adminOrders.PATCH("/:id/payment", h.Order.UpdatePayment)

	adminPayouts := adminRoutes.Group("admin-payouts", "/payouts")
	adminPayouts.GET("", h.Payout.List)
	adminPayouts.POST("", h.Payout.Record)
	adminPayouts.PATCH("/:id", h.Payout.Process)

	adminDesigns := adminRoutes.Group("admin-designs", "/designs")
	adminDesigns.GET("", h.Design.List)
	adminDesigns.POST("", h.Design.Create)
	adminDesigns.PATCH("/:id", h.Design.Update)

	adminExpenses := adminRoutes.Group("admin-expenses", "/expenses")
	adminExpenses.GET("", h.Expense.List)
	adminExpenses.POST("", h.Expense.Record)
	adminExpenses.GET("/summary", h.Expense.Summary)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.Info)

	return []RouteRegistrar{
		authRoutes,
		agentRoutes,
		orderRoutes,
		catalogRoutes,
		draftRoutes,
		profileRoutes,
		professionRoutes,
		ownProfileRoutes,
		notificationRoutes,
		uploadRoutes,
		portalRoutes,
		adminRoutes,
		systemRoutes,
	}
}

// RegisterAll queues every registrar on the router
func (r *Router) RegisterAll(registrars []RouteRegistrar) *Router {
	for _, registrar := range registrars {
		r.Register(registrar)
	}
	return r
}
