package fakebridge

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/nahidhasan98/wabridge/internal/logger"
)

// Server is a running fake bridge
type Server struct {
	*Handler
	httpServer *httptest.Server
}

// Start starts a fake bridge on a local port. log may be nil.
func Start(log *logger.Logger) *Server {
	h := newHandler(log)

	var handler http.Handler = h
	handler = recovery(log, handler)
	if log != nil {
		handler = logging(log, handler)
	}

	return &Server{
		Handler:    h,
		httpServer: httptest.NewServer(handler),
	}
}

// URL returns the bridge root URL
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Host returns the host the bridge listens on
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.httpServer.Listener.Addr().String())
	return host
}

// Port returns the port the bridge listens on
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.httpServer.Listener.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// Close shuts the bridge down
func (s *Server) Close() {
	s.httpServer.Close()
}

// UnusedPort returns a local port nothing listens on
func UnusedPort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 1
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port
}

// logging logs each request with its status and duration
func logging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		log.With("method", r.Method).
			With("path", r.URL.Path).
			With("status", rw.statusCode).
			With("duration", time.Since(start).String()).
			Debugf("bridge request completed")
	})
}

// recovery turns handler panics into a 500
func recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if log != nil {
					log.Warnf("Panic in bridge handler: %v", err)
				}
				http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
