package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"snapgate/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with extra middleware as needed in main
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness (the report page re-polls, so never serve stale state)
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),

		// cross-origin; permissive no-credential defaults so other local dev
		// origins can read the JSON endpoints
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(30 * time.Second),
	}
}
