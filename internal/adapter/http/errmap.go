package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	captableDomain "horizon-backend/internal/domain/captable"
	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/tenant"
)

// writeError maps domain errors onto the {msg, errors?} envelope.
// Cross-organization lookups surface as 404, same as absent rows.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tenant.ErrUnauthenticated),
		errors.Is(err, tenant.ErrNoActiveOrganization):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Msg: err.Error()})
	case errors.Is(err, tenant.ErrForbiddenRole):
		return c.JSON(http.StatusForbidden, ErrorResponse{Msg: err.Error()})
	case errors.Is(err, roundDomain.ErrNotFound),
		errors.Is(err, investorDomain.ErrNotFound),
		errors.Is(err, investorDomain.ErrTrancheNotFound),
		errors.Is(err, captableDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Msg: err.Error()})
	case errors.Is(err, roundDomain.ErrDuplicateName),
		errors.Is(err, investorDomain.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, ErrorResponse{Msg: err.Error()})
	case errors.Is(err, roundDomain.ErrValidation),
		errors.Is(err, roundDomain.ErrNotReady),
		errors.Is(err, roundDomain.ErrInvalidTransition),
		errors.Is(err, roundDomain.ErrPriceUnset),
		errors.Is(err, roundDomain.ErrClosedForPayments),
		errors.Is(err, roundDomain.ErrFunded),
		errors.Is(err, investorDomain.ErrValidation),
		errors.Is(err, investorDomain.ErrTrancheValidation),
		errors.Is(err, investorDomain.ErrAmountInvalid),
		errors.Is(err, investorDomain.ErrNotConvertible):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Msg: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Msg: "internal server error"})
	}
}
