package wabridge

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// SendBatch sends each item's text to its phone with at most maxWorkers
// requests in flight (DefaultMaxWorkers when maxWorkers <= 0).
//
// It never fails as a whole: result i belongs to items[i], and a failed item
// carries a failure record instead of aborting the others.
func (c *Client) SendBatch(ctx context.Context, items []BatchItem, maxWorkers int) []BatchResult {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return c.fanOut(ctx, items, maxWorkers)
}

// fanOut runs items concurrently; limit < 0 means no cap
func (c *Client) fanOut(ctx context.Context, items []BatchItem, limit int) []BatchResult {
	start := time.Now()
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			results[i] = c.sendItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	c.metrics.ObserveBatch(len(items), failed)
	c.log.Info().
		Int("items", len(items)).
		Int("failed", failed).
		Int("workers", limit).
		Dur("duration", time.Since(start)).
		Msg("batch send finished")

	return results
}

func (c *Client) sendItem(ctx context.Context, item BatchItem) BatchResult {
	var resp Response
	err := c.call(ctx, http.MethodPost, pathSend, Payload{"phone": item.Phone, "message": item.Message}, &resp)
	if err != nil {
		c.log.Warn().Err(err).Str("to", item.Phone).Msg("batch item failed")
		return failedResult(item.Phone, err)
	}
	return BatchResult{To: item.Phone, Response: resp}
}
