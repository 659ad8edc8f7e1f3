package httputils

import (
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/governance/lib/errors"
	"boscoin.io/governance/lib/metrics"
)

// ParseRateLimit reads a rate like `100-S`, `1000-M` or `50000-H`.
func ParseRateLimit(s string) (limiter.Rate, error) {
	rate, err := limiter.NewRateFromFormatted(s)
	if err != nil {
		return rate, errors.BadRequestParameter.Clone().SetData("rate", s).SetData("error", err.Error())
	}

	return rate, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware limits the requests of each client address to
// `rate`; the counters are kept in memory.
func RateLimitMiddleware(rate limiter.Rate) mux.MiddlewareFunc {
	lim := limiter.New(memory.NewStore(), rate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ctx, err := lim.Get(r.Context(), ip)
			if err != nil {
				WriteJSONError(w, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

			if ctx.Reached {
				metrics.API.AddRateLimited(routeTemplate(r))
				WriteJSONError(w, errors.TooManyRequests.Clone().SetData("ip", ip))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
