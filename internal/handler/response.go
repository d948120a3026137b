package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-bookshelf/internal/model"
	"go-bookshelf/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

// writeError renders err as {"message": ...}. Service errors carry their own
// status; bare sentinels are mapped here; anything else is a logged 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "code", apiErr.Code, "error", err)
		}
	case errors.Is(err, model.ErrBookNotFound):
		status = http.StatusNotFound
		message = "Book Not Found"
	case errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenRevoked):
		status = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "Invalid Request Body"
	default:
		slog.Error("unhandled error in writeError", "error", err)
	}

	writeMessage(w, status, message)
}

// decodeJSON reads a bounded JSON body into dst. Any decode failure is
// reported as model.ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return errors.Join(model.ErrInvalidInput, err)
	}
	return nil
}
