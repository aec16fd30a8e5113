package utils

import (
	"encoding/json"
	"net/http"

	"course-payments/errors"
	"course-payments/logger"
)

// StandardResponse represents a standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendJSON writes a JSON response with the given status code
// This is the base function used by all response helpers
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// SendSuccess sends a success response with data
func SendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	response := StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	SendJSON(w, statusCode, response)
}

// SendError sends an error response
func SendError(w http.ResponseWriter, statusCode int, message string) {
	response := StandardResponse{
		Status: "error",
		Error:  message,
	}
	SendJSON(w, statusCode, response)
}

// SendAppError converts an application error to a JSON error response with
// the status of its kind. Invalid payloads are routine and logged at debug;
// everything else is worth an error line.
func SendAppError(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	switch kind {
	case errors.InvalidPayload:
		logger.Debug("Invalid payload: %s", errors.MessageOf(err))
	case errors.SignatureMismatch:
		// Already logged at warn where detected
	default:
		logger.Error("Request failed (%s): %v", kind, err)
	}
	SendError(w, kind.HTTPStatus(), errors.MessageOf(err))
}
