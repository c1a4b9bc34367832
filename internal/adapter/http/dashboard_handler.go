package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"horizon-backend/internal/adapter/middleware"
	dashboardUC "horizon-backend/internal/usecase/dashboard"
)

type DashboardHandler struct {
	uc *dashboardUC.Usecase
}

func NewDashboardHandler(uc *dashboardUC.Usecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	summary, err := h.uc.Summarize(c.Request().Context(), middleware.RequestContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
