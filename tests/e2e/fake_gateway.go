//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// fakeGateway answers /transaction/initialize like Paystack does and remembers the
// sessions it opened.
type fakeGateway struct {
	server *httptest.Server

	mu       sync.Mutex
	sessions []initializedSession
	failNext bool
}

type initializedSession struct {
	Reference string
	Email     string
	Amount    int64
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transaction/initialize", g.initialize)
	g.server = httptest.NewServer(mux)
	return g
}

func (g *fakeGateway) URL() string { return g.server.URL }

func (g *fakeGateway) Close() { g.server.Close() }

// FailNext makes the next initialize call answer 503.
func (g *fakeGateway) FailNext() {
	g.mu.Lock()
	g.failNext = true
	g.mu.Unlock()
}

func (g *fakeGateway) Sessions() []initializedSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]initializedSession(nil), g.sessions...)
}

func (g *fakeGateway) Reset() {
	g.mu.Lock()
	g.sessions, g.failNext = nil, false
	g.mu.Unlock()
}

func (g *fakeGateway) initialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"status":false,"message":"bad request"}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	fail := g.failNext
	g.failNext = false
	if !fail {
		g.sessions = append(g.sessions, initializedSession{Reference: req.Reference, Email: req.Email, Amount: req.Amount})
	}
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":false,"message":"service unavailable"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  true,
		"message": "Authorization URL created",
		"data": map[string]string{
			"authorization_url": "https://checkout.paystack.com/" + req.Reference,
			"access_code":       "ac_" + req.Reference,
			"reference":         req.Reference,
		},
	})
}
