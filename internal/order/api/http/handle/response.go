package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"dely-backend/internal/auth"
	"dely-backend/internal/order/app/core"
)

// Every response carries a status discriminator: SUCCESS with a data payload
// or FAILED with a list of errors the client can render per field.
const (
	statusSuccess = "SUCCESS"
	statusFailed  = "FAILED"
)

type envelope struct {
	Status string            `json:"status"`
	Data   any               `json:"data,omitempty"`
	Errors []core.FieldError `json:"errors,omitempty"`
}

// jsonSuccess writes a SUCCESS envelope with the given payload.
func jsonSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(envelope{Status: statusSuccess, Data: data})
}

// jsonFailed writes a FAILED envelope with the given errors.
func jsonFailed(w http.ResponseWriter, code int, fields []core.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: statusFailed, Errors: fields})
}

// jsonError maps a service error onto the FAILED envelope. Field-level
// validation problems come back with 200 so clients render them inline;
// everything else picks the matching status code with a single message.
func jsonError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		jsonFailed(w, http.StatusOK, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, core.ErrLocationNotFound):
		jsonFailed(w, http.StatusOK, []core.FieldError{{Msg: "Location do not exist"}})
	case errors.Is(err, core.ErrLocationClosed):
		jsonFailed(w, http.StatusOK, []core.FieldError{{Msg: "Location is closed"}})
	case errors.Is(err, core.ErrOrderNotFound):
		jsonFailed(w, http.StatusOK, []core.FieldError{{Msg: "Order do not exist"}})
	case errors.Is(err, auth.ErrUnauthorized):
		jsonFailed(w, http.StatusUnauthorized, []core.FieldError{{Msg: "Unauthorized"}})
	case errors.Is(err, core.ErrNumberSpaceExhausted):
		jsonFailed(w, http.StatusServiceUnavailable, []core.FieldError{{Msg: "Try again later"}})
	default:
		jsonFailed(w, http.StatusInternalServerError, []core.FieldError{{Msg: "Something went wrong"}})
	}
}

// jsonBadRequest reports an unparseable body.
func jsonBadRequest(w http.ResponseWriter) {
	jsonFailed(w, http.StatusBadRequest, []core.FieldError{{Msg: "failed to parse JSON"}})
}
