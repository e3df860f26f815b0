// Package api exposes the deviation engine over HTTP: the drone intake
// endpoint plus the operator query surface.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fleetops-data/deviation.report/internal/engine"
	"github.com/fleetops-data/deviation.report/internal/monitoring"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server wires the engine into HTTP handlers. All endpoints share one
// key check: drones authenticate the intake with the X-API-Key header,
// and the same shared secret stands in for the operator session layer
// on the query surface.
type Server struct {
	engine  *engine.Engine
	apiKey  string
	metrics *monitoring.Collector
}

// NewServer creates a server around a constructed engine. The metrics
// collector may be nil.
func NewServer(eng *engine.Engine, apiKey string, metrics *monitoring.Collector) *Server {
	return &Server{
		engine:  eng,
		apiKey:  apiKey,
		metrics: metrics,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration, and feeds
// the HTTP request counter.
func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
		s.metrics.ObserveHTTP(r.Method, r.URL.Path, lrw.statusCode)
	})
}

// ServeMux returns the route table. The longer /data/latest/ prefix
// wins over /data/ under ServeMux matching, so per-call-sign latest
// queries do not shadow history queries.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/data", s.requireKey(http.HandlerFunc(s.handleData)))
	mux.Handle("/data/latest/", s.requireKey(http.HandlerFunc(s.handleLatestFor)))
	mux.Handle("/data/", s.requireKey(http.HandlerFunc(s.handleHistory)))
	mux.Handle("/reset_history", s.requireKey(http.HandlerFunc(s.handleReset)))
	mux.Handle("/callsigns", s.requireKey(http.HandlerFunc(s.handleCallSigns)))
	mux.Handle("/stats/", s.requireKey(http.HandlerFunc(s.handleStats)))
	return mux
}
