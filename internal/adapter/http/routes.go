package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Health    *Handler
	Rounds    *RoundHandler
	Investors *InvestorHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the fundraising API. tenantMW must resolve the
// organization headers before any route below the prefix runs.
func RegisterRoutes(e *echo.Echo, h Handlers, tenantMW ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	g := e.Group("/api/horizon/fundraising", tenantMW...)

	g.POST("/rounds", h.Rounds.CreateRound)
	g.GET("/rounds", h.Rounds.ListRounds)
	g.GET("/rounds/:round_id", h.Rounds.GetRound)
	g.PUT("/rounds/:round_id", h.Rounds.UpdateRound)
	g.DELETE("/rounds/:round_id", h.Rounds.DeleteRound)
	g.POST("/rounds/:round_id/preview-investment", h.Rounds.PreviewInvestment)
	g.POST("/rounds/:round_id/recalculate", h.Rounds.RecalculateRound)
	g.GET("/rounds/:round_id/integrity", h.Rounds.ValidateRound)

	g.POST("/investors", h.Investors.CreateInvestor)
	g.GET("/investors", h.Investors.ListInvestors)
	g.GET("/investors/:investor_id", h.Investors.GetInvestor)
	g.PUT("/investors/:investor_id", h.Investors.UpdateInvestor)
	g.DELETE("/investors/:investor_id", h.Investors.DeleteInvestor)
	g.POST("/investors/:investor_id/tranches", h.Investors.AddTranche)
	g.PUT("/investors/:investor_id/tranches/:tranche_id", h.Payments.UpdateTranche)
	g.DELETE("/investors/:investor_id/tranches/:tranche_id", h.Investors.DeleteTranche)
	g.POST("/investors/:investor_id/convert", h.Investors.ConvertInvestor)

	g.POST("/bulk-payment", h.Payments.BulkPayment)

	g.GET("/dashboard", h.Dashboard.Dashboard)
}
