package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.noticeboard/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrorValidation),
		errors.Is(err, model.ErrorDuplicateUser),
		errors.Is(err, model.ErrorInvalidID),
		errors.Is(err, model.ErrorInvalidVerificationToken),
		errors.Is(err, model.ErrorInvalidOrExpiredToken):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrorMissingToken),
		errors.Is(err, model.ErrorInvalidSession),
		errors.Is(err, model.ErrorInvalidCredentials),
		errors.Is(err, model.ErrorEmailNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrorPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps domain errors to their status codes. Anything not in
// the taxonomy is a store or transport failure: logged in full, reported to
// the client as a generic message.
func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("internal error: %+v", err)
		return c.JSON(status, errorResponse{Error: "internal server error"})
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}
