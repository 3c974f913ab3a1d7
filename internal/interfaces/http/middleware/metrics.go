package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics receives per-request observations.
type HTTPMetrics interface {
	RecordHTTPRequest(method, route string, statusCode int, elapsed time.Duration)
	RequestStarted()
	RequestFinished()
}

// ErrorRecorder counts failed requests by component and code.
type ErrorRecorder interface {
	RecordError(component, code string)
}

// Metrics records request count, latency and in-flight requests, labelled by
// route pattern to keep cardinality bounded. Server errors are also counted
// through ErrorRecorder when m implements it.
func Metrics(m HTTPMetrics) func(http.Handler) http.Handler {
	errs, _ := m.(ErrorRecorder)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.RequestStarted()
			defer m.RequestFinished()

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordHTTPRequest(r.Method, routePattern(r), status, time.Since(start))
			if errs != nil && status >= 500 {
				errs.RecordError("http", strconv.Itoa(status))
			}
		})
	}
}

//Personal.AI order the ending
