package httpapi

import (
	"errors"
	"net/http"

	"github.com/arcnode/quote-aggregator/internal/entities"
)

// statusFor is the only place in the repo that maps an engine error to
// an HTTP status code.
func statusFor(err error) int {
	var engineErr *entities.Error
	if !errors.As(err, &engineErr) {
		return http.StatusInternalServerError
	}
	switch engineErr.Kind {
	case entities.ErrInvalidInput, entities.ErrUnknownToken, entities.ErrNoLiquidity:
		return http.StatusBadRequest
	case entities.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
