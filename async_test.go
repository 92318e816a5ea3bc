package wabridge

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/wabridge/internal/fakebridge"
)

func newTestAsync(t *testing.T, bridge *fakebridge.Server) *AsyncClient {
	t.Helper()

	a, err := NewAsync(WithHost(bridge.Host()), WithPort(bridge.Port()), WithTimeout(5*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAsync_Status(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	a := newTestAsync(t, bridge)

	status, err := a.Status(context.Background()).Wait()
	require.NoError(t, err)
	assert.Equal(t, StateOpen, status.Status)

	connected, err := a.IsConnected(context.Background()).Wait()
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestAsync_IsConnectedNeverFails(t *testing.T) {
	a, err := NewAsync(WithHost("127.0.0.1"), WithPort(fakebridge.UnusedPort()))
	require.NoError(t, err)
	defer a.Close()

	connected, err := a.IsConnected(context.Background()).Wait()
	assert.NoError(t, err)
	assert.False(t, connected)
}

func TestAsync_SendVariants(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	a := newTestAsync(t, bridge)
	ctx := context.Background()

	futures := map[string]*Future[Response]{
		"/send":         a.SendText(ctx, "919876543210", "hi"),
		"/send/self":    a.SendSelf(ctx, "hi"),
		"/send/group":   a.SendGroup(ctx, "120363012345@g.us", TextContent{Text: "hi"}),
		"/send/channel": a.SendChannel(ctx, "120363098765@newsletter", TextContent{Text: "hi"}),
	}
	for path, f := range futures {
		resp, err := f.Wait()
		require.NoError(t, err, path)
		assert.True(t, resp.Success(), path)
	}

	paths := map[string]int{}
	for _, req := range bridge.Requests() {
		paths[req.Path]++
	}
	assert.Equal(t, map[string]int{"/send": 1, "/send/self": 1, "/send/group": 1, "/send/channel": 1}, paths)
}

func TestAsync_ErrorsSurfaceOnWait(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	bridge.SetState(StateDisconnected, "")
	a := newTestAsync(t, bridge)

	_, err := a.SendMedia(context.Background(), "919876543210", ImageContent{URL: "https://example.com/i.jpg"}).Wait()
	assert.ErrorIs(t, err, ErrConnection)

	_, err = a.Groups(context.Background()).Wait()
	assert.ErrorIs(t, err, ErrConnection)
}

func TestAsync_SendBatchUncapped(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	bridge.On("/send", func(req fakebridge.Request) (fakebridge.Reply, bool) {
		if req.Body["phone"] == "919876543219" {
			return fakebridge.Reply{Status: http.StatusInternalServerError, Body: map[string]string{"error": "WhatsApp not connected"}}, true
		}
		return fakebridge.Reply{Delay: 200 * time.Millisecond, Body: map[string]any{"success": true, "to": req.Body["phone"]}}, true
	})
	a := newTestAsync(t, bridge)

	items := make([]BatchItem, 10)
	for i := range items {
		items[i] = BatchItem{Phone: "91987654321" + string(rune('0'+i)), Message: "hi"}
	}

	start := time.Now()
	results, err := a.SendBatch(context.Background(), items).Wait()
	require.NoError(t, err)
	require.Len(t, results, 10)
	// Ten delayed replies in parallel, not five at a time
	assert.Less(t, time.Since(start), 380*time.Millisecond)

	for i, r := range results[:9] {
		assert.True(t, r.OK(), i)
		assert.Equal(t, items[i].Phone, r.To)
	}
	assert.Equal(t, Response{"success": false, "error": "WhatsApp not connected", "to": "919876543219"}, results[9].Response)
}

func TestAsync_SendRequestBatch(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	a := newTestAsync(t, bridge)

	res, err := a.Send(context.Background(), SendRequest{Batch: []BatchItem{{Phone: "919876543210", Message: "hi"}}}).Wait()
	require.NoError(t, err)
	require.Len(t, res.Batch, 1)
	assert.True(t, res.Batch[0].OK())

	res, err = a.Send(context.Background(), SendRequest{Target: "919876543210", Message: Text("hi")}).Wait()
	require.NoError(t, err)
	assert.True(t, res.Response.Success())
}

func TestFuture_GetHonorsContext(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	bridge.On("/status", func(fakebridge.Request) (fakebridge.Reply, bool) {
		return fakebridge.Reply{Delay: 300 * time.Millisecond, Body: map[string]string{"status": "open"}}, true
	})
	a := newTestAsync(t, bridge)

	f := a.Status(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	status, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, StateOpen, status.Status)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after Wait")
	}
}

func TestAsync_SharesClient(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	c := newTestClient(t, bridge)

	a := c.Async()
	assert.Same(t, c, a.Sync())

	require.NoError(t, a.Close())
	_, err := c.Status(context.Background())
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestAsync_SendTo(t *testing.T) {
	bridge := fakebridge.Start(nil)
	defer bridge.Close()
	a := newTestAsync(t, bridge)

	_, err := a.SendTo(context.Background(), ParseTarget("120363012345@g.us"), TextContent{Text: "hi"}).Wait()
	require.NoError(t, err)
	_, err = a.SendSelfContent(context.Background(), TextContent{Text: "hi"}).Wait()
	require.NoError(t, err)

	reqs := bridge.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/send/group", reqs[0].Path)
	assert.Equal(t, "/send/self", reqs[1].Path)
}
