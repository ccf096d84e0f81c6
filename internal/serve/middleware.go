package serve

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"animedex/internal/metrics"
)

// observe records a latency histogram per route pattern and logs each
// request at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		took := time.Since(start)
		metrics.RecordHTTP(route, ww.Status(), took)

		s.log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", took).
			Msg("request")
	})
}
