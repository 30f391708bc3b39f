package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkoval/companyportal/internal/common"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, code int, msgs ...string) {
	writeJSON(w, code, map[string]any{"errors": msgs})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeServiceError maps service-layer errors onto HTTP responses. Unmatched
// errors fail only the current request with a generic retry message.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation common.ValidationErrors
	switch {
	case errors.As(err, &validation):
		writeErrors(w, http.StatusUnprocessableEntity, validation...)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeErrors(w, http.StatusUnauthorized, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorDuplicateEmail):
		writeErrors(w, http.StatusConflict, "An account with this email already exists.")
	case errors.Is(err, common.ErrorDuplicateUsername):
		writeErrors(w, http.StatusConflict, "This username is already taken.")
	case errors.Is(err, common.ErrorNotFound):
		writeErrors(w, http.StatusNotFound, "not found")
	default:
		writeErrors(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
