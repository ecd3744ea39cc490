package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Kind classifies a failure for the retry policy
type Kind string

const (
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindOther      Kind = "other"
)

// Retryable reports whether a failure of this kind is worth another attempt
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindTimeout
}

// StatusError is a non-2xx answer from the API
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Classify inspects the error chain. It never looks at message text.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return KindNetwork
	}
	return KindOther
}

func classifyStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuth
	case code == http.StatusForbidden:
		return KindPermission
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return KindTimeout
	case code == http.StatusTooManyRequests || code == http.StatusBadGateway || code == http.StatusServiceUnavailable:
		return KindNetwork
	default:
		return KindOther
	}
}

// userMessage is what the profile_error state shows
func userMessage(kind Kind, err error) string {
	switch kind {
	case KindNetwork, KindTimeout:
		return "Couldn't reach Guidelight. Check the connection and try again."
	case KindPermission:
		return "You don't have permission to load this profile."
	case KindNotFound:
		return "No staff profile is linked to this account. Ask a manager to set one up."
	default:
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			return statusErr.Message
		}
		return "Something went wrong loading your profile."
	}
}
