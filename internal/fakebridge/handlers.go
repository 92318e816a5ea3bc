// Package fakebridge is an in-process stand-in for the WABridge server, used
// by tests of the client and the CLI.
package fakebridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nahidhasan98/wabridge/internal/logger"
	"github.com/nahidhasan98/wabridge/internal/validation"
)

// Request is one request received by the bridge
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// Reply overrides the bridge's answer for a request
type Reply struct {
	Status int
	Body   any
	Raw    string        // sent verbatim instead of Body when set
	Delay  time.Duration // wait before answering
}

// ReplyFunc decides the answer for a request; ok=false keeps the default
type ReplyFunc func(req Request) (reply Reply, ok bool)

// GroupInfo represents a WhatsApp group
type GroupInfo struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Size    int    `json:"size"`
	Desc    string `json:"desc,omitempty"`
}

// Handler holds the bridge state and the recorded traffic
type Handler struct {
	log *logger.Logger

	mu       sync.Mutex
	state    string
	user     string
	groups   []GroupInfo
	replies  map[string]ReplyFunc
	requests []Request
	sent     int
}

func newHandler(log *logger.Logger) *Handler {
	return &Handler{
		log:     log,
		state:   "open",
		user:    "919800000000@s.whatsapp.net",
		replies: make(map[string]ReplyFunc),
	}
}

// SetState sets the connection state reported by /status
func (h *Handler) SetState(state, user string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
	h.user = user
}

// SetGroups sets the groups listed by /groups. nil omits the field.
func (h *Handler) SetGroups(groups []GroupInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.groups = groups
}

// On installs fn for path, replacing the default behavior when fn says so
func (h *Handler) On(path string, fn ReplyFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replies[path] = fn
}

// Requests returns a copy of every request received so far
func (h *Handler) Requests() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Request, len(h.requests))
	copy(out, h.requests)
	return out
}

// Last returns the most recent request
func (h *Handler) Last() (Request, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		return Request{}, false
	}
	return h.requests[len(h.requests)-1], true
}

// ServeHTTP records the request and dispatches it
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
	}
	if r.Body != nil && r.Method == http.MethodPost {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.record(req)
			h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Body = body
	}
	h.record(req)

	h.mu.Lock()
	fn := h.replies[req.Path]
	h.mu.Unlock()
	if fn != nil {
		if reply, ok := fn(req); ok {
			h.writeReply(w, reply)
			return
		}
	}

	switch req.Path {
	case "/status":
		h.status(w, req)
	case "/groups":
		h.listGroups(w, req)
	case "/send":
		h.send(w, req, "phone")
	case "/send/self":
		h.send(w, req, "")
	case "/send/group":
		h.send(w, req, "groupId")
	case "/send/channel":
		h.send(w, req, "channelId")
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) record(req Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)
}

func (h *Handler) status(w http.ResponseWriter, req Request) {
	if req.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	body := map[string]any{"status": h.state}
	if h.user != "" {
		body["user"] = h.user
	} else {
		body["user"] = nil
	}
	h.mu.Unlock()

	h.writeJSON(w, body, http.StatusOK)
}

func (h *Handler) listGroups(w http.ResponseWriter, req Request) {
	if req.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.connected() {
		h.writeError(w, "WhatsApp not connected", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	groups := h.groups
	h.mu.Unlock()

	if groups == nil {
		h.writeJSON(w, map[string]any{}, http.StatusOK)
		return
	}
	h.writeJSON(w, map[string]any{"groups": groups}, http.StatusOK)
}

// send validates a send request the way the bridge does and acknowledges it
func (h *Handler) send(w http.ResponseWriter, req Request, recipientField string) {
	if req.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recipient := ""
	if recipientField != "" {
		recipient, _ = req.Body[recipientField].(string)
		if strings.TrimSpace(recipient) == "" {
			h.writeError(w, "'"+recipientField+"' field is required", http.StatusBadRequest)
			return
		}
	}

	switch recipientField {
	case "phone":
		if _, err := validation.NormalizePhone(recipient); err != nil {
			h.writeError(w, "Invalid phone number: "+recipient, http.StatusBadRequest)
			return
		}
	case "groupId":
		if !validation.IsGroupID(recipient) {
			h.writeError(w, "Invalid group ID: "+recipient, http.StatusBadRequest)
			return
		}
	case "channelId":
		if !validation.IsChannelID(recipient) {
			h.writeError(w, "Invalid channel ID: "+recipient, http.StatusBadRequest)
			return
		}
	}

	if _, ok := req.Body["document"]; ok {
		if _, ok := req.Body["mimetype"]; !ok {
			h.writeError(w, "'mimetype' is required for documents", http.StatusBadRequest)
			return
		}
	}

	if !h.connected() {
		h.writeError(w, "WhatsApp not connected", http.StatusInternalServerError)
		return
	}

	body := map[string]any{
		"success":   true,
		"messageId": h.nextMessageID(),
	}
	if recipient != "" {
		body["to"] = recipient
	}
	h.writeJSON(w, body, http.StatusOK)
}

func (h *Handler) nextMessageID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent++
	return fmt.Sprintf("3EB0%08X", h.sent)
}

func (h *Handler) connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == "open"
}

// Helper functions

func (h *Handler) writeReply(w http.ResponseWriter, reply Reply) {
	if reply.Delay > 0 {
		time.Sleep(reply.Delay)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Raw != "" {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply.Raw))
		return
	}
	h.writeJSON(w, reply.Body, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && h.log != nil {
		h.log.Error("Failed to encode JSON response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, map[string]string{"error": message}, status)
}
