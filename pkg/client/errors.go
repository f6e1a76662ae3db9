package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by the API.
const (
	KindValidation          = "VALIDATION_ERROR"
	KindNotFound            = "NOT_FOUND"
	KindAlreadyExists       = "ALREADY_EXISTS"
	KindAuthorizationDenied = "AUTHORIZATION_DENIED"
	KindNotAMember          = "NOT_A_MEMBER"
	KindUnauthenticated     = "UNAUTHENTICATED"
	KindInternal            = "INTERNAL"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Kind == "" {
		apiErr.Kind = KindInternal
	}
	return apiErr
}
