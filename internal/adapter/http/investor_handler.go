package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"horizon-backend/internal/adapter/middleware"
	investorDomain "horizon-backend/internal/domain/investor"
	captableUC "horizon-backend/internal/usecase/captable"
	investorUC "horizon-backend/internal/usecase/investor"
)

type InvestorHandler struct {
	uc *investorUC.Usecase
}

func NewInvestorHandler(uc *investorUC.Usecase) *InvestorHandler {
	return &InvestorHandler{uc: uc}
}

type trancheReq struct {
	AgreedAmount     decimal.Decimal `json:"agreed_amount"`
	ReceivedAmount   decimal.Decimal `json:"received_amount"`
	DateAgreed       *time.Time      `json:"date_agreed"`
	DateReceived     *time.Time      `json:"date_received"`
	TriggerCondition string          `json:"trigger_condition"`
	PaymentMethod    string          `json:"payment_method"`
	TransactionRef   string          `json:"transaction_ref"`
	Notes            string          `json:"notes"`
}

func (t trancheReq) toInput() investorUC.TrancheInput {
	return investorUC.TrancheInput{
		AgreedAmount:     t.AgreedAmount,
		ReceivedAmount:   t.ReceivedAmount,
		DateAgreed:       t.DateAgreed,
		DateReceived:     t.DateReceived,
		TriggerCondition: t.TriggerCondition,
		PaymentMethod:    t.PaymentMethod,
		TransactionRef:   t.TransactionRef,
		Notes:            t.Notes,
	}
}

type createInvestorReq struct {
	RoundID              string           `json:"round_id"           validate:"required,hex32"`
	Name                 string           `json:"name"               validate:"required"`
	ContactPerson        string           `json:"contact_person"`
	Email                string           `json:"email"              validate:"omitempty,email"`
	EntityName           string           `json:"entity_name"`
	InvestorType         string           `json:"investor_type"`
	InvestmentVehicle    string           `json:"investment_vehicle" validate:"omitempty,oneof=safe convertible_note equity other"`
	ValuationCap         *decimal.Decimal `json:"valuation_cap"`
	DiscountPercentage   *decimal.Decimal `json:"discount_percentage"`
	InterestRate         *decimal.Decimal `json:"interest_rate"`
	MaturityDate         *time.Time       `json:"maturity_date"`
	TotalCommittedAmount decimal.Decimal  `json:"total_committed_amount"`
	Currency             string           `json:"currency"`
	Status               string           `json:"status" validate:"omitempty,oneof=lead contacted interested committed invested declined passed on_hold"`
	Tranches             []trancheReq     `json:"tranches"`
}

func (h *InvestorHandler) CreateInvestor(c echo.Context) error {
	var req createInvestorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "validation failed", Errors: ToFieldErrors(err)})
	}
	in := investorUC.AddInput{
		RoundID:              req.RoundID,
		Name:                 req.Name,
		ContactPerson:        req.ContactPerson,
		Email:                req.Email,
		EntityName:           req.EntityName,
		InvestorType:         req.InvestorType,
		InvestmentVehicle:    investorDomain.Vehicle(req.InvestmentVehicle),
		ValuationCap:         req.ValuationCap,
		DiscountPercentage:   req.DiscountPercentage,
		InterestRate:         req.InterestRate,
		MaturityDate:         req.MaturityDate,
		TotalCommittedAmount: req.TotalCommittedAmount,
		Currency:             req.Currency,
		Status:               investorDomain.Status(req.Status),
	}
	for _, t := range req.Tranches {
		in.Tranches = append(in.Tranches, t.toInput())
	}
	inv, err := h.uc.Add(c.Request().Context(), middleware.RequestContext(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InvestorHandler) ListInvestors(c echo.Context) error {
	invs, err := h.uc.List(c.Request().Context(), middleware.RequestContext(c), c.QueryParam("round_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, invs)
}

func (h *InvestorHandler) GetInvestor(c echo.Context) error {
	inv, err := h.uc.Get(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

type updateInvestorReq struct {
	Name                 *string          `json:"name"`
	ContactPerson        *string          `json:"contact_person"`
	Email                *string          `json:"email" validate:"omitempty,email"`
	EntityName           *string          `json:"entity_name"`
	InvestorType         *string          `json:"investor_type"`
	TotalCommittedAmount *decimal.Decimal `json:"total_committed_amount"`
	Status               *string          `json:"status" validate:"omitempty,oneof=lead contacted interested committed invested declined passed on_hold"`
	StatusNote           string           `json:"status_note"`
	Tranches             []trancheReq     `json:"tranches"`
}

func (h *InvestorHandler) UpdateInvestor(c echo.Context) error {
	var req updateInvestorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "validation failed", Errors: ToFieldErrors(err)})
	}
	in := investorUC.UpdateInput{
		Name:                 req.Name,
		ContactPerson:        req.ContactPerson,
		Email:                req.Email,
		EntityName:           req.EntityName,
		InvestorType:         req.InvestorType,
		TotalCommittedAmount: req.TotalCommittedAmount,
		StatusNote:           req.StatusNote,
	}
	if req.Status != nil {
		s := investorDomain.Status(*req.Status)
		in.Status = &s
	}
	if req.Tranches != nil {
		in.Tranches = make([]investorUC.TrancheInput, 0, len(req.Tranches))
		for _, t := range req.Tranches {
			in.Tranches = append(in.Tranches, t.toInput())
		}
	}
	inv, err := h.uc.Update(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InvestorHandler) DeleteInvestor(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"msg": "investor deleted"})
}

func (h *InvestorHandler) AddTranche(c echo.Context) error {
	var req trancheReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	inv, err := h.uc.AddTranche(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InvestorHandler) DeleteTranche(c echo.Context) error {
	inv, err := h.uc.DeleteTranche(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id"), c.Param("tranche_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

type convertReq struct {
	ConversionDate *time.Time `json:"conversion_date"`
}

func (h *InvestorHandler) ConvertInvestor(c echo.Context) error {
	var req convertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	res, err := h.uc.Convert(c.Request().Context(), middleware.RequestContext(c), c.Param("investor_id"), captableUC.ConversionInput{
		ConversionDate: req.ConversionDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
