package service

import (
	"errors"
	"net/http"

	"go-bookshelf/internal/event"
	"go-bookshelf/internal/metrics"
	"go-bookshelf/pkg/apierror"
)

// Error codes returned by AuthService. Each maps to exactly one status and
// message so callers cannot tell apart causes that share a code.
const (
	CodeMissingFields      = "MISSING_FIELDS"
	CodeDuplicateUser      = "DUPLICATE_USER"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
)

func errMissingFields() *apierror.APIError {
	return apierror.New(CodeMissingFields, "Fill All Required Fields", "", http.StatusBadRequest)
}

func errDuplicateUser() *apierror.APIError {
	return apierror.New(CodeDuplicateUser, "User with same credentials already exists", "", http.StatusConflict)
}

func errInvalidCredentials() *apierror.APIError {
	return apierror.New(CodeInvalidCredentials, "Invalid Credentials", "", http.StatusUnauthorized)
}

func errUnauthorized() *apierror.APIError {
	return apierror.New(CodeUnauthorized, "Unauthorized", "", http.StatusUnauthorized)
}

func errInternal() *apierror.APIError {
	return apierror.New(CodeInternalError, "Internal Server Error", "", http.StatusInternalServerError)
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeInternalError
	}

	switch apiErr.Code {
	case CodeMissingFields:
		return metrics.OutcomeMissingFields
	case CodeDuplicateUser:
		return metrics.OutcomeDuplicateUser
	case CodeInvalidCredentials:
		return metrics.OutcomeInvalidCredentials
	case CodeUnauthorized:
		return metrics.OutcomeUnauthorized
	default:
		return metrics.OutcomeInternalError
	}
}

func publish(p event.Publisher, t event.Type, actorID string, payload map[string]string) {
	if p != nil {
		p.Publish(event.New(t, actorID, payload))
	}
}
