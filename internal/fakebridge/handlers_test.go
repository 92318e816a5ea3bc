package fakebridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Send(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "phone", path: "/send", body: `{"phone":"919876543210","message":"hi"}`, wantStatus: 200, wantBody: `"success":true`},
		{name: "missing phone", path: "/send", body: `{"message":"hi"}`, wantStatus: 400, wantBody: `'phone' field is required`},
		{name: "bad phone", path: "/send", body: `{"phone":"12","message":"hi"}`, wantStatus: 400, wantBody: `Invalid phone number`},
		{name: "self", path: "/send/self", body: `{"message":"hi"}`, wantStatus: 200, wantBody: `"messageId"`},
		{name: "group", path: "/send/group", body: `{"groupId":"120363012345@g.us","message":"hi"}`, wantStatus: 200, wantBody: `"to":"120363012345@g.us"`},
		{name: "bad group", path: "/send/group", body: `{"groupId":"919876543210","message":"hi"}`, wantStatus: 400, wantBody: `Invalid group ID`},
		{name: "channel", path: "/send/channel", body: `{"channelId":"120363098765@newsletter","message":"hi"}`, wantStatus: 200},
		{name: "document without mimetype", path: "/send", body: `{"phone":"919876543210","document":"https://example.com/d.pdf"}`, wantStatus: 400, wantBody: `mimetype`},
		{name: "invalid JSON", path: "/send", body: `{`, wantStatus: 400, wantBody: `Invalid request body`},
		{name: "unknown path", path: "/nope", body: `{}`, wantStatus: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(nil)
			w := serve(h, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_NotConnected(t *testing.T) {
	h := newHandler(nil)
	h.SetState("disconnected", "")

	w := serve(h, http.MethodPost, "/send/self", `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "WhatsApp not connected")

	w = serve(h, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"disconnected","user":null}`, w.Body.String())
}

func TestHandler_Overrides(t *testing.T) {
	h := newHandler(nil)
	h.On("/status", func(req Request) (Reply, bool) {
		return Reply{Status: http.StatusBadGateway, Raw: "upstream down"}, true
	})

	w := serve(h, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "upstream down", w.Body.String())

	reqs := h.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/status", reqs[0].Path)
}

func TestServer_Start(t *testing.T) {
	s := Start(nil)
	defer s.Close()

	assert.NotEmpty(t, s.Host())
	assert.NotZero(t, s.Port())
	assert.True(t, strings.HasPrefix(s.URL(), "http://"))

	resp, err := http.Get(s.URL() + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
