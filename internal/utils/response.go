// Package utils provides utility functions and helpers for the application.
// This file implements the standardized API response envelope used by every
// endpoint:
//
//	{"success": bool, "data": ..., "error": {"code", "message", "details"}}
//
// Handlers never write JSON directly; they go through JSON, Error or
// ErrorFromAppError so clients can parse every response the same way.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// Response represents a standardized API response.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details, e.g. validation errors per field
}

// JSON sends a JSON response with the given status code and data.
// The success flag is derived from the status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Text sends a plain text response.
func Text(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error().Err(err).Msg("Failed to write text response")
	}
}

// Error sends an error response with the given status code and error information.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: constants.ResponseFailure,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorCode returns the machine-readable code for an application error.
// An expired token reports the same code as any other invalid token.
func ErrorCode(err *AppError) string {
	switch {
	case errors.Is(err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(err, ErrNotFound):
		return constants.CodeUserNotFound
	case errors.Is(err, ErrDuplicate):
		return constants.CodeDuplicateResource
	case errors.Is(err, ErrInvalidCredentials):
		return constants.CodeInvalidCredentials
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return constants.CodeTokenInvalid
	case errors.Is(err, ErrTransportFailure):
		return constants.CodeTransportFailure
	case errors.Is(err, ErrStoreFailure):
		return constants.CodeStoreFailure
	}
	return constants.CodeInternalError
}

// ErrorFromAppError sends an error response based on an AppError.
// Server-side failures are logged with their developer information, which is
// never sent to the client.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err.Err).
			Str("dev_info", err.DevInfo).
			Int("status", err.StatusCode).
			Msg(err.Message)
	}

	var details map[string]string
	if len(err.Details) > 0 {
		details = make(map[string]string, len(err.Details))
		for k, v := range err.Details {
			if s, ok := v.(string); ok {
				details[k] = s
			}
		}
	} else if err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}

	Error(w, err.StatusCode, ErrorCode(err), err.Message, details)
}

// SendJSON marshals data and writes it with the JSON content type.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, constants.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, constants.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
}
