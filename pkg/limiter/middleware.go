package limiter

import (
	"net"
	"net/http"
	"time"

	"github.com/cherrygram/reputation-api/internal/metrics"
	apperrors "github.com/cherrygram/reputation-api/pkg/app/errors"
	apphttp "github.com/cherrygram/reputation-api/pkg/app/http"
)

// clientKey extracts the client identity from the request. With the chi
// RealIP middleware upstream RemoteAddr already holds the proxied address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with a 429 response.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Admit(clientKey(r), time.Now()) {
				metrics.RateLimitRejections.Inc()
				apphttp.DefaultErrorHandler(w,
					apperrors.RateLimitedError(nil, "rate limit exceeded: try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
