package middleware

import (
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds handler execution. On expiry the client gets 503 with a
// message body in the same shape as every other error.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	message := `{"message":"Request Timed Out"}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
