package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"horizon-backend/internal/adapter/middleware"
	investorUC "horizon-backend/internal/usecase/investor"
	paymentUC "horizon-backend/internal/usecase/payment"
)

// PaymentHandler owns tranche mutation routes. A tranche update carrying a
// received amount is a payment and runs through the payment processor; a
// metadata-only update stays in the investor usecase.
type PaymentHandler struct {
	payments  *paymentUC.Usecase
	investors *investorUC.Usecase
}

func NewPaymentHandler(payments *paymentUC.Usecase, investors *investorUC.Usecase) *PaymentHandler {
	return &PaymentHandler{payments: payments, investors: investors}
}

type updateTrancheReq struct {
	ReceivedAmount   *decimal.Decimal `json:"received_amount"`
	AgreedAmount     *decimal.Decimal `json:"agreed_amount"`
	DateAgreed       *time.Time       `json:"date_agreed"`
	DateReceived     *time.Time       `json:"date_received"`
	TriggerCondition *string          `json:"trigger_condition"`
	PaymentMethod    *string          `json:"payment_method"`
	TransactionRef   *string          `json:"transaction_ref"`
	Notes            *string          `json:"notes"`
	Cancelled        *bool            `json:"cancelled"`
}

func (h *PaymentHandler) UpdateTranche(c echo.Context) error {
	var req updateTrancheReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	rc := middleware.RequestContext(c)
	investorID := c.Param("investor_id")
	trancheID := c.Param("tranche_id")

	if req.ReceivedAmount != nil {
		details := paymentUC.Details{DateReceived: req.DateReceived}
		if req.PaymentMethod != nil {
			details.PaymentMethod = *req.PaymentMethod
		}
		if req.TransactionRef != nil {
			details.TransactionRef = *req.TransactionRef
		}
		if req.Notes != nil {
			details.Notes = *req.Notes
		}
		res, err := h.payments.ProcessTranchePayment(c.Request().Context(), rc, paymentUC.Input{
			InvestorID:     investorID,
			TrancheID:      trancheID,
			AmountReceived: *req.ReceivedAmount,
			Details:        details,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}

	inv, err := h.investors.UpdateTrancheDetails(c.Request().Context(), rc, investorID, trancheID, investorUC.TrancheUpdateInput{
		AgreedAmount:     req.AgreedAmount,
		DateAgreed:       req.DateAgreed,
		TriggerCondition: req.TriggerCondition,
		PaymentMethod:    req.PaymentMethod,
		TransactionRef:   req.TransactionRef,
		Notes:            req.Notes,
		Cancelled:        req.Cancelled,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

type bulkPaymentItemReq struct {
	InvestorID     string          `json:"investor_id"     validate:"required,hex32"`
	TrancheID      string          `json:"tranche_id"      validate:"required"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	DateReceived   *time.Time      `json:"date_received"`
	PaymentMethod  string          `json:"payment_method"`
	TransactionRef string          `json:"transaction_ref"`
	Notes          string          `json:"notes"`
}

type bulkPaymentReq struct {
	Payments []bulkPaymentItemReq `json:"payments" validate:"required,min=1,dive"`
}

func (h *PaymentHandler) BulkPayment(c echo.Context) error {
	var req bulkPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "validation failed", Errors: ToFieldErrors(err)})
	}
	inputs := make([]paymentUC.Input, 0, len(req.Payments))
	for _, p := range req.Payments {
		inputs = append(inputs, paymentUC.Input{
			InvestorID:     p.InvestorID,
			TrancheID:      p.TrancheID,
			AmountReceived: p.ReceivedAmount,
			Details: paymentUC.Details{
				PaymentMethod:  p.PaymentMethod,
				TransactionRef: p.TransactionRef,
				Notes:          p.Notes,
				DateReceived:   p.DateReceived,
			},
		})
	}
	res, err := h.payments.ProcessBulk(c.Request().Context(), middleware.RequestContext(c), inputs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
