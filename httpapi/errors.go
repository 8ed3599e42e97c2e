package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	coachvault "github.com/futurepoint/coachvault"
)

type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// writeError maps engine errors onto status codes. Wrapped detail beyond
// the sentinel message never reaches the caller.
func writeError(w http.ResponseWriter, err error) {
	var verr *coachvault.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      coachvault.ErrValidation.Error(),
			Violations: verr.Violations,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, coachvault.ErrValidation):
		status, message = http.StatusBadRequest, coachvault.ErrValidation.Error()
	case errors.Is(err, coachvault.ErrInvalidCredential),
		errors.Is(err, coachvault.ErrUsernameMismatch),
		errors.Is(err, coachvault.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, sentinelMessage(err)
	case errors.Is(err, coachvault.ErrForbidden),
		errors.Is(err, coachvault.ErrNotAuthorized),
		errors.Is(err, coachvault.ErrRegistryUnavailable):
		status, message = http.StatusForbidden, sentinelMessage(err)
	case errors.Is(err, coachvault.ErrNotFound):
		status, message = http.StatusNotFound, coachvault.ErrNotFound.Error()
	case errors.Is(err, coachvault.ErrConflict):
		status, message = http.StatusConflict, coachvault.ErrConflict.Error()
	case errors.Is(err, coachvault.ErrLoginRateLimited):
		status, message = http.StatusTooManyRequests, coachvault.ErrLoginRateLimited.Error()
	case errors.Is(err, coachvault.ErrListingTooLarge):
		status, message = http.StatusInternalServerError, coachvault.ErrListingTooLarge.Error()
	case errors.Is(err, coachvault.ErrUnavailable):
		status, message = http.StatusInternalServerError, coachvault.ErrUnavailable.Error()
	}

	writeJSON(w, status, errorResponse{Error: message})
}

// sentinelMessage strips wrapped detail down to the sentinel text.
func sentinelMessage(err error) string {
	for _, sentinel := range []error{
		coachvault.ErrInvalidCredential,
		coachvault.ErrUsernameMismatch,
		coachvault.ErrUnauthenticated,
		coachvault.ErrForbidden,
		coachvault.ErrNotAuthorized,
		coachvault.ErrRegistryUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
