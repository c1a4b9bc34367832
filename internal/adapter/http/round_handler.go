package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"horizon-backend/internal/adapter/middleware"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/usecase/integrity"
	roundUC "horizon-backend/internal/usecase/round"
)

type RoundHandler struct {
	uc        *roundUC.Usecase
	integrity *integrity.Usecase
}

func NewRoundHandler(uc *roundUC.Usecase, integ *integrity.Usecase) *RoundHandler {
	return &RoundHandler{uc: uc, integrity: integ}
}

type createRoundReq struct {
	Name                    string          `json:"name"                      validate:"required"`
	TargetAmount            decimal.Decimal `json:"target_amount"`
	EquityPercentageOffered decimal.Decimal `json:"equity_percentage_offered"`
	ExistingSharesPreRound  int64           `json:"existing_shares_pre_round"`
	Currency                string          `json:"currency"`
	RoundType               string          `json:"round_type"`
	Status                  string          `json:"status"                    validate:"omitempty,oneof=planning open closing closed on_hold cancelled"`
	OpenDate                *time.Time      `json:"open_date"`
	TargetCloseDate         *time.Time      `json:"target_close_date"`
}

func (h *RoundHandler) CreateRound(c echo.Context) error {
	var req createRoundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "validation failed", Errors: ToFieldErrors(err)})
	}
	rnd, err := h.uc.Initialize(c.Request().Context(), middleware.RequestContext(c), roundUC.InitializeInput{
		Name:                    req.Name,
		TargetAmount:            req.TargetAmount,
		EquityPercentageOffered: req.EquityPercentageOffered,
		ExistingSharesPreRound:  req.ExistingSharesPreRound,
		Currency:                req.Currency,
		RoundType:               req.RoundType,
		Status:                  roundDomain.Status(req.Status),
		OpenDate:                req.OpenDate,
		TargetCloseDate:         req.TargetCloseDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rnd)
}

func (h *RoundHandler) ListRounds(c echo.Context) error {
	rounds, err := h.uc.List(c.Request().Context(), middleware.RequestContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rounds)
}

func (h *RoundHandler) GetRound(c echo.Context) error {
	detail, err := h.uc.Get(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type updateRoundReq struct {
	Name                    *string          `json:"name"`
	TargetAmount            *decimal.Decimal `json:"target_amount"`
	EquityPercentageOffered *decimal.Decimal `json:"equity_percentage_offered"`
	ExistingSharesPreRound  *int64           `json:"existing_shares_pre_round"`
	RoundType               *string          `json:"round_type"`
	Status                  *string          `json:"status" validate:"omitempty,oneof=planning open closing closed on_hold cancelled"`
	TargetCloseDate         *time.Time       `json:"target_close_date"`
}

func (h *RoundHandler) UpdateRound(c echo.Context) error {
	var req updateRoundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "validation failed", Errors: ToFieldErrors(err)})
	}
	in := roundUC.UpdateInput{
		Name:                    req.Name,
		TargetAmount:            req.TargetAmount,
		EquityPercentageOffered: req.EquityPercentageOffered,
		ExistingSharesPreRound:  req.ExistingSharesPreRound,
		RoundType:               req.RoundType,
		TargetCloseDate:         req.TargetCloseDate,
	}
	if req.Status != nil {
		s := roundDomain.Status(*req.Status)
		in.Status = &s
	}
	rnd, err := h.uc.Update(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rnd)
}

func (h *RoundHandler) DeleteRound(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"msg": "round deleted"})
}

type previewReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *RoundHandler) PreviewInvestment(c echo.Context) error {
	var req previewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	preview, err := h.uc.PreviewInvestment(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id"), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}

func (h *RoundHandler) RecalculateRound(c echo.Context) error {
	metrics, err := h.integrity.RecalculateRoundMetrics(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, metrics)
}

func (h *RoundHandler) ValidateRound(c echo.Context) error {
	report, err := h.integrity.ValidateRoundIntegrity(c.Request().Context(), middleware.RequestContext(c), c.Param("round_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
