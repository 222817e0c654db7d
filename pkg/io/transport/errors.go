package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

var ErrConnectionFailed = errors.New("connection failed after retries")

// StatusError is a non-2xx answer from a provider. It is permanent and never retried.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.IsAuth() {
		return fmt.Sprintf("%s: invalid API key (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsAuth reports whether the provider rejected the credentials.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsAuthError unwraps err looking for an authentication StatusError.
func IsAuthError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.IsAuth()
}

var transientMessages = []string{
	"server closed idle connection",
	"connection reset by peer",
	"broken pipe",
	"http2: server sent goaway",
	"goaway",
	"use of closed network connection",
}

// IsTransient reports whether err is a connection-layer failure worth retrying on a fresh pool.
// Status errors and context cancellation are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
