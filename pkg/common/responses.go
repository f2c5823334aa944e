package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "statesapi/pkg/errors"
)

// MaxBodyBytes caps request bodies at 1 MiB
const MaxBodyBytes int64 = 1 << 20

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ReadBody reads the whole request body, enforcing maxBytes
func ReadBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewPayloadTooLargeError(tooLarge.Limit)
		}
		return nil, apperrors.NewValidationError("Invalid request body").WithCause(err)
	}
	return body, nil
}
