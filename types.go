package wabridge

import "errors"

// Connection states reported by GET /status
const (
	StateConnecting   = "connecting"
	StateOpen         = "open"
	StateDisconnected = "disconnected"
)

// Status is the bridge connection snapshot
type Status struct {
	Status string `json:"status"`
	User   string `json:"user,omitempty"`
}

// Group is one entry of GET /groups
type Group struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Size    int    `json:"size"`
	Desc    string `json:"desc,omitempty"`
}

type groupsResponse struct {
	Groups []Group `json:"groups"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Response is a decoded bridge response body. Its shape is bridge-defined.
type Response map[string]any

// Success reports the body's "success" flag
func (r Response) Success() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// Error returns the body's "error" message, if any
func (r Response) Error() string {
	return r.String("error")
}

// String returns the string value at key, or "" when absent or not a string
func (r Response) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// BatchItem is one text message of a batch send
type BatchItem struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// BatchResult is the outcome of one batch item. On failure Response holds the
// record {success: false, error: <message>, to: <phone>} and Err the cause.
type BatchResult struct {
	To       string
	Response Response
	Err      error
}

// OK reports whether the item was accepted by the bridge
func (r BatchResult) OK() bool {
	return r.Err == nil
}

func failedResult(phone string, err error) BatchResult {
	msg := err.Error()
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		msg = bridgeErr.Message
	}
	return BatchResult{
		To: phone,
		Response: Response{
			"success": false,
			"error":   msg,
			"to":      phone,
		},
		Err: err,
	}
}

// SendRequest is the argument set of the polymorphic Send.
//
// Routing, in order:
//   - Batch non-nil: batch send of text items; Media is ignored
//   - Target empty: content goes to the caller's own chat
//   - media set: content goes to the phone in Target
//   - Message nil: Target itself is the text, sent to the caller's own chat
//   - otherwise: Message goes to the phone in Target
type SendRequest struct {
	Target     string
	Message    *string
	Media      MediaOptions
	Batch      []BatchItem
	MaxWorkers int
}

// SendResult holds the response to a single send, or the batch outcomes
type SendResult struct {
	Response Response
	Batch    []BatchResult
}

// Text returns a pointer to s, for SendRequest.Message
func Text(s string) *string {
	return &s
}
