package wabridge

import "context"

// Future is the pending result of an AsyncClient call
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func start[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call finishes
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Get waits for the call or for ctx, whichever ends first. Giving up on ctx
// does not cancel the call; cancel the context passed to the call for that.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AsyncClient has the operations of Client, each returning at once with a
// Future. Its batch send runs every item concurrently.
type AsyncClient struct {
	c *Client
}

// NewAsync creates an async client; options are those of New
func NewAsync(opts ...Option) (*AsyncClient, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{c: c}, nil
}

// Async returns an async view sharing c's connections. Closing either closes both.
func (c *Client) Async() *AsyncClient {
	return &AsyncClient{c: c}
}

// Sync returns the blocking client behind a
func (a *AsyncClient) Sync() *Client {
	return a.c
}

// Close releases pooled connections. Calling it more than once is harmless.
func (a *AsyncClient) Close() error {
	return a.c.Close()
}

// Status checks the WhatsApp connection state of the bridge
func (a *AsyncClient) Status(ctx context.Context) *Future[*Status] {
	return start(func() (*Status, error) { return a.c.Status(ctx) })
}

// IsConnected resolves to false on any failure; its Future never holds an error
func (a *AsyncClient) IsConnected(ctx context.Context) *Future[bool] {
	return start(func() (bool, error) { return a.c.IsConnected(ctx), nil })
}

// Groups lists the groups the bridge account belongs to
func (a *AsyncClient) Groups(ctx context.Context) *Future[[]Group] {
	return start(func() ([]Group, error) { return a.c.Groups(ctx) })
}

// Send routes req like Client.Send, except that a batch is sent fully concurrently
func (a *AsyncClient) Send(ctx context.Context, req SendRequest) *Future[*SendResult] {
	if req.Batch != nil {
		return start(func() (*SendResult, error) {
			return &SendResult{Batch: a.c.fanOut(ctx, req.Batch, -1)}, nil
		})
	}
	return start(func() (*SendResult, error) { return a.c.Send(ctx, req) })
}

// SendText sends a text message to phone
func (a *AsyncClient) SendText(ctx context.Context, phone, message string) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendText(ctx, phone, message) })
}

// SendSelf sends a text message to the bridge account's own chat
func (a *AsyncClient) SendSelf(ctx context.Context, message string) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendSelf(ctx, message) })
}

// SendMedia sends content to phone
func (a *AsyncClient) SendMedia(ctx context.Context, phone string, content Content) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendMedia(ctx, phone, content) })
}

// SendSelfContent sends content to the bridge account's own chat
func (a *AsyncClient) SendSelfContent(ctx context.Context, content Content) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendSelfContent(ctx, content) })
}

// SendGroup sends content to a group
func (a *AsyncClient) SendGroup(ctx context.Context, groupID string, content Content) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendGroup(ctx, groupID, content) })
}

// SendChannel sends content to a channel
func (a *AsyncClient) SendChannel(ctx context.Context, channelID string, content Content) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendChannel(ctx, channelID, content) })
}

// SendTo sends content to t
func (a *AsyncClient) SendTo(ctx context.Context, t Target, content Content) *Future[Response] {
	return start(func() (Response, error) { return a.c.SendTo(ctx, t, content) })
}

// SendBatch sends all items at once. The Future never holds an error.
func (a *AsyncClient) SendBatch(ctx context.Context, items []BatchItem) *Future[[]BatchResult] {
	return start(func() ([]BatchResult, error) { return a.c.fanOut(ctx, items, -1), nil })
}
