package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-gym/internal/actions"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func wrapError(err error) errorResponse {
	return errorResponse{
		Error: err.Error(),
		Kind:  actions.ErrorKind(err),
	}
}

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	if err := SendJSON(w, status, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

// statusFor maps the action error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, actions.ErrUnknownAction):
		return http.StatusNotFound
	case actions.IsCallerError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func sendErrorOrLog(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("action failed", slog.Any("error", err))
	}
	sendJSONOrLog(w, logger, status, wrapError(err))
}

func Health(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
