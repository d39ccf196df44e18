package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorResponse is the envelope for every non-2xx body.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the wire. Sentinel errors from the
// domain package carry the status; anything unrecognized is a 500 with a
// generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{"validation_error", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{errorDetail{"not_found", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{errorDetail{"forbidden", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{errorDetail{"unauthorized", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{errorDetail{"conflict", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrPaymentFailed):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{errorDetail{"payment_failed", unwrapMessage(err)}})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{"internal_error", "internal server error"}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (malformed body, bad path parameter).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{errorDetail{"bad_request", message}})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error. Service errors look like
// "service.TripService.Create: validation error: title is required";
// clients only need the part after the sentinel text.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrNotFound.Error(),
		domain.ErrForbidden.Error(),
		domain.ErrUnauthorized.Error(),
		domain.ErrConflict.Error(),
		domain.ErrPaymentFailed.Error(),
	} {
		if i := strings.Index(msg, sentinel+": "); i >= 0 {
			return msg[i+len(sentinel)+2:]
		}
		if strings.HasSuffix(msg, sentinel) {
			return sentinel
		}
	}
	return msg
}

// decode parses and validates a JSON request body into dst, which must be a
// pointer to a struct with validator tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New("invalid field: " + strings.ToLower(verrs[0].Field()))
		}
		return errors.New("invalid request body")
	}
	return nil
}

// idParam parses a chi URL parameter as an int64 ID.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// currentUser returns the authenticated user. Handlers behind the required
// middleware can assume ok; the false branch guards against wiring mistakes.
func currentUser(r *http.Request) (domain.User, bool) {
	return middleware.UserFromContext(r.Context())
}
