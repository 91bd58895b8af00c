package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/samdwyer/sortie/internal/codec"
)

// Call is one request received by a MockServer.
type Call struct {
	Endpoint string
	UID      string
	Form     url.Values
}

// MockServer is a scripted game server for tests. Responses are queued per
// endpoint; the last queued response repeats once the queue drains.
// Endpoints without a script answer with an empty successful envelope.
type MockServer struct {
	*httptest.Server
	mu        sync.Mutex
	responses map[string][]any
	drop      map[string]bool
	calls     []Call
	tokens    int
}

// NewMockServer starts a mock server.
func NewMockServer() *MockServer {
	m := &MockServer{
		responses: make(map[string][]any),
		drop:      make(map[string]bool),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Client returns an api client pointed at the mock server.
func (m *MockServer) Client() *Client {
	c, err := New(Options{
		BaseURL:    m.URL,
		UserID:     "1001",
		Cookie:     "cookie",
		Token:      "t0",
		HTTPClient: m.Server.Client(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Queue appends responses for endpoint. A response is any JSON-encodable
// value; a string is sent as raw JSON. The envelope fields status and t are
// filled in unless the response sets them.
func (m *MockServer) Queue(endpoint string, responses ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[endpoint] = append(m.responses[endpoint], responses...)
}

// Reject makes endpoint answer with a non-zero status code.
func (m *MockServer) Reject(endpoint string, code int) {
	m.Queue(endpoint, map[string]any{"status": code})
}

// Drop makes every request to endpoint fail at the connection level.
func (m *MockServer) Drop(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drop[endpoint] = true
}

// Calls returns the requests received so far.
func (m *MockServer) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Endpoints returns the endpoints called so far, in order.
func (m *MockServer) Endpoints() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Endpoint
	}
	return out
}

// Count returns how often endpoint was called.
func (m *MockServer) Count(endpoint string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))
	endpoint := strings.TrimPrefix(r.URL.Path, "/")

	m.mu.Lock()
	m.calls = append(m.calls, Call{Endpoint: endpoint, UID: r.URL.Query().Get("uid"), Form: form})
	dropped := m.drop[endpoint]
	var resp any
	if queue := m.responses[endpoint]; len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			m.responses[endpoint] = queue[1:]
		}
	}
	m.tokens++
	token := fmt.Sprintf("t%d", m.tokens)
	m.mu.Unlock()

	if dropped {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return
			}
		}
		http.Error(w, "dropped", http.StatusBadGateway)
		return
	}

	out, err := envelopeFor(resp, token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func envelopeFor(resp any, token string) ([]byte, error) {
	obj := map[string]any{}
	switch v := resp.(type) {
	case nil:
	case string:
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, err
		}
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
	}
	if _, ok := obj["status"]; !ok {
		obj["status"] = 0
	}
	if _, ok := obj["t"]; !ok {
		obj["t"] = token
	}
	return json.Marshal(obj)
}

// SealedReport encrypts a battle report the way the server does and returns
// it as a combat response body.
func SealedReport(report any) map[string]any {
	iv := []byte("0123456789abcdef")
	data, ivHex, err := codec.Seal(report, iv, []byte("\x00\x00"))
	if err != nil {
		panic(err)
	}
	return map[string]any{"data": data, "iv": ivHex}
}
