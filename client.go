package wabridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nahidhasan98/wabridge/internal/metrics"
)

// Bridge endpoints
const (
	pathStatus      = "/status"
	pathGroups      = "/groups"
	pathSend        = "/send"
	pathSendSelf    = "/send/self"
	pathSendGroup   = "/send/group"
	pathSendChannel = "/send/channel"
)

// Client talks to a bridge over one pooled HTTP connection set. It is safe for
// concurrent use; call Close when done.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a client for the bridge at localhost:3000 unless options say otherwise
func New(opts ...Option) (*Client, error) {
	o := options{
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	hc := o.httpClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConnsPerHost = DefaultMaxWorkers
		hc = &http.Client{
			Transport: transport,
			Timeout:   o.cfg.Timeout,
		}
	}

	c := &Client{
		cfg:     o.cfg,
		baseURL: o.cfg.BaseURL(),
		http:    hc,
		log:     o.logger.With().Str("component", "wabridge").Str("bridge", o.cfg.BaseURL()).Logger(),
		metrics: metrics.New(o.registerer),
	}
	if o.limit > 0 {
		burst := o.burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(o.limit, burst)
	}

	return c, nil
}

// WithClient runs fn with a new client and closes it on every exit path
func WithClient(fn func(*Client) error, opts ...Option) error {
	c, err := New(opts...)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// Config returns the connection target the client was built with
func (c *Client) Config() Config {
	return c.cfg
}

// Close releases pooled connections. Calling it more than once is harmless.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.http.CloseIdleConnections()
		c.log.Debug().Msg("client closed")
	})
	return nil
}

// Status checks the WhatsApp connection state of the bridge
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.call(ctx, http.MethodGet, pathStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// IsConnected reports whether the bridge is connected and ready. Any failure,
// including an unreachable bridge, reads as false.
func (c *Client) IsConnected(ctx context.Context) bool {
	status, err := c.Status(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("status check failed")
		return false
	}
	return status.Status == StateOpen
}

// Groups lists the groups the bridge account belongs to
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var body groupsResponse
	if err := c.call(ctx, http.MethodGet, pathGroups, nil, &body); err != nil {
		return nil, err
	}
	if body.Groups == nil {
		return []Group{}, nil
	}
	return body.Groups, nil
}

// Send routes req the way SendRequest documents
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if req.Batch != nil {
		return &SendResult{Batch: c.SendBatch(ctx, req.Batch, req.MaxWorkers)}, nil
	}

	var message string
	if req.Message != nil {
		message = *req.Message
	}
	content := BuildContent(message, req.Media)

	var (
		resp Response
		err  error
	)
	switch {
	case req.Target == "":
		resp, err = c.SendSelfContent(ctx, content)
	case hasMedia(content):
		resp, err = c.SendMedia(ctx, req.Target, content)
	case req.Message == nil:
		// A lone string is the message, not a recipient
		resp, err = c.SendSelf(ctx, req.Target)
	default:
		resp, err = c.SendText(ctx, req.Target, *req.Message)
	}
	if err != nil {
		return nil, err
	}
	return &SendResult{Response: resp}, nil
}

// SendText sends a text message to phone
func (c *Client) SendText(ctx context.Context, phone, message string) (Response, error) {
	return c.post(ctx, pathSend, Payload{"phone": phone, "message": message})
}

// SendSelf sends a text message to the bridge account's own chat
func (c *Client) SendSelf(ctx context.Context, message string) (Response, error) {
	return c.post(ctx, pathSendSelf, Payload{"message": message})
}

// SendMedia sends content to phone
func (c *Client) SendMedia(ctx context.Context, phone string, content Content) (Response, error) {
	return c.post(ctx, pathSend, payloadFor(content, "phone", phone))
}

// SendSelfContent sends content to the bridge account's own chat
func (c *Client) SendSelfContent(ctx context.Context, content Content) (Response, error) {
	return c.post(ctx, pathSendSelf, payloadFor(content))
}

// SendGroup sends content to a group. Use Groups to find group IDs.
func (c *Client) SendGroup(ctx context.Context, groupID string, content Content) (Response, error) {
	return c.post(ctx, pathSendGroup, payloadFor(content, "groupId", groupID))
}

// SendChannel sends content to a channel (newsletter)
func (c *Client) SendChannel(ctx context.Context, channelID string, content Content) (Response, error) {
	return c.post(ctx, pathSendChannel, payloadFor(content, "channelId", channelID))
}

// SendTo sends content to t
func (c *Client) SendTo(ctx context.Context, t Target, content Content) (Response, error) {
	switch t.Kind {
	case TargetSelf:
		return c.SendSelfContent(ctx, content)
	case TargetPhone:
		return c.SendMedia(ctx, t.Address, content)
	case TargetGroup:
		return c.SendGroup(ctx, t.Address, content)
	case TargetChannel:
		return c.SendChannel(ctx, t.Address, content)
	default:
		return nil, fmt.Errorf("unknown target kind: %s", t.Kind)
	}
}

func (c *Client) post(ctx context.Context, path string, body Payload) (Response, error) {
	var resp Response
	if err := c.call(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// call performs one request and decodes a 200 body into out. Any other status
// becomes an *Error.
func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	status, data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return translate(status, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (int, []byte, error) {
	if c.closed.Load() {
		return 0, nil, ErrClientClosed
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wabridge-go/"+Version)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.Observe(path, metrics.OutcomeTransport, time.Since(start))
		c.log.Debug().Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("bridge request failed")
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.Observe(path, metrics.OutcomeTransport, elapsed)
		return 0, nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	outcome := metrics.OutcomeOK
	if resp.StatusCode != http.StatusOK {
		outcome = metrics.OutcomeBridgeError
	}
	c.metrics.Observe(path, outcome, elapsed)

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Str("request_id", requestID).
		Msg("bridge request completed")

	return resp.StatusCode, data, nil
}

// translate turns a non-200 answer into an *Error
func translate(status int, data []byte) *Error {
	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return newError(status, unknownError)
	}
	return newError(status, body.Error)
}
