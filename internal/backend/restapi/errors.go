package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"taskdash/internal/service"
)

// errorBody matches the error payloads the API sends.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError converts a non-2xx response into a service.APIError.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := ""
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = strings.ToLower(http.StatusText(resp.StatusCode))
	}

	return &service.APIError{
		Kind:       service.KindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// networkError wraps a transport failure.
func networkError(err error) error {
	msg := "request failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request cancelled"
	}
	return &service.APIError{Kind: service.KindNetwork, Message: msg, Err: err}
}

// asAuthError reclassifies client errors from the login endpoint: bad
// credentials are an auth failure whatever 4xx the server picked.
func asAuthError(err error) error {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		apiErr.Kind = service.KindAuth
	}
	return err
}
