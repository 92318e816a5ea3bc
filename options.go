package wabridge

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type options struct {
	cfg        Config
	logger     zerolog.Logger
	registerer prometheus.Registerer
	limit      rate.Limit
	burst      int
	httpClient *http.Client
}

// Option configures a Client
type Option func(*options)

// WithConfig replaces host, port and timeout at once
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithHost sets the bridge host
func WithHost(host string) Option {
	return func(o *options) { o.cfg.Host = host }
}

// WithPort sets the bridge port
func WithPort(port int) Option {
	return func(o *options) { o.cfg.Port = port }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.Timeout = d }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics registers the client's collectors with reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithRateLimit paces outgoing requests to r per second with the given burst.
// Requests wait for a token; they are never dropped.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.limit = r
		o.burst = burst
	}
}

// WithHTTPClient makes the client issue requests through hc. The timeout of hc
// is left alone; Close still releases its idle connections.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}
