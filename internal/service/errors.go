package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies backend failures.
type ErrorKind int

const (
	// KindUnknown is used for errors that did not come from a backend call.
	KindUnknown ErrorKind = iota
	// KindNetwork means the request never got a response.
	KindNetwork
	// KindAuth means the credentials were missing, invalid or expired.
	KindAuth
	// KindValidation means the server rejected the request payload.
	KindValidation
	// KindConflict means the resource already exists.
	KindConflict
	// KindClient covers the remaining 4xx responses.
	KindClient
	// KindServer covers 5xx responses.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindAuth:
		return "auth error"
	case KindValidation:
		return "validation error"
	case KindConflict:
		return "conflict"
	case KindClient:
		return "client error"
	case KindServer:
		return "server error"
	}
	return "error"
}

// APIError is returned by backends for every failed call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Kind, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuth
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return KindValidation
	case code == http.StatusConflict:
		return KindConflict
	case code >= 400 && code < 500:
		return KindClient
	case code >= 500:
		return KindServer
	}
	return KindUnknown
}

// KindOf returns the kind of the first APIError in err's chain.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an APIError of kind k.
func IsKind(err error, k ErrorKind) bool {
	return err != nil && KindOf(err) == k
}
