package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/analyzer"
)

const burnText = `4 Lightning Bolt
4 Monastery Swiftspear
20 Mountain`

func newTestServer() *Server {
	return NewServer(DefaultConfig(), analyzer.New(nil), nil)
}

func postJSON(t *testing.T, srv *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data map[string]string
	decodeData(t, rec, &data)
	if data["status"] != "healthy" {
		t.Errorf("expected healthy status, got %q", data["status"])
	}
}

func TestAnalyzeDeckText(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/deck/analyze", map[string]string{"text": burnText})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		State struct {
			Deck struct {
				Entries []struct {
					Name  string `json:"name"`
					Count int    `json:"count"`
				} `json:"entries"`
			} `json:"deck"`
		} `json:"state"`
		Summary struct {
			TotalCards int `json:"total_cards"`
		} `json:"summary"`
	}
	decodeData(t, rec, &data)

	if len(data.State.Deck.Entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(data.State.Deck.Entries))
	}
	if data.Summary.TotalCards != 28 {
		t.Errorf("expected 28 total cards, got %d", data.Summary.TotalCards)
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/deck/analyze", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidateDeck(t *testing.T) {
	srv := newTestServer()

	state := map[string]interface{}{
		"state": map[string]interface{}{
			"deck": map[string]interface{}{
				"entries": []map[string]interface{}{
					{"name": "Mountain", "count": 4, "role_primary": "LAND"},
				},
			},
		},
	}
	rec := postJSON(t, srv, "/api/v1/deck/validate", state)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Issues []string `json:"issues"`
	}
	decodeData(t, rec, &data)

	found := false
	for _, code := range data.Issues {
		if code == "DECK_TOO_SMALL" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected DECK_TOO_SMALL issue, got %v", data.Issues)
	}
}

func TestShareRoundTrip(t *testing.T) {
	srv := newTestServer()

	state := map[string]interface{}{
		"state": map[string]interface{}{
			"deck": map[string]interface{}{
				"entries": []map[string]interface{}{
					{"name": "Lightning Bolt", "count": 4, "role_primary": "REMOVAL"},
					{"name": "Mountain", "count": 20, "role_primary": "LAND"},
				},
			},
		},
	}
	rec := postJSON(t, srv, "/api/v1/share/encode", state)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var encoded struct {
		Token string `json:"token"`
		Warn  bool   `json:"warn"`
	}
	decodeData(t, rec, &encoded)
	if encoded.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if encoded.Warn {
		t.Error("small deck should not trip the length warning")
	}

	rec = postJSON(t, srv, "/api/v1/share/decode", map[string]string{"token": encoded.Token})
	if rec.Code != http.StatusOK {
		t.Fatalf("decode: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decoded struct {
		Deck struct {
			Entries []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"entries"`
		} `json:"deck"`
	}
	decodeData(t, rec, &decoded)
	if len(decoded.Deck.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded.Deck.Entries))
	}
	// Canonical order sorts by normalized name.
	if first := decoded.Deck.Entries[0]; first.Name != "Lightning Bolt" || first.Count != 4 {
		t.Errorf("unexpected first entry: %+v", first)
	}
}

func TestShareDecodeGarbage(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv, "/api/v1/share/decode", map[string]string{"token": "not a token!!"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestMonteCarloEndpoint(t *testing.T) {
	srv := newTestServer()
	go srv.wsHub.Run()
	defer srv.wsHub.Stop()

	deckEntries := []map[string]interface{}{
		{"name": "Lightning Bolt", "count": 4, "role_primary": "REMOVAL"},
		{"name": "Monastery Swiftspear", "count": 4, "role_primary": "PAYOFF"},
		{"name": "Mountain", "count": 20, "role_primary": "LAND"},
	}
	iterations := 100
	seed := 7
	body := map[string]interface{}{
		"state": map[string]interface{}{
			"deck": map[string]interface{}{"entries": deckEntries},
		},
		"settings": map[string]interface{}{
			"iterations": iterations,
			"seed":       seed,
		},
	}

	rec := postJSON(t, srv, "/api/v1/deck/montecarlo", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Version string `json:"version"`
		Dist    struct {
			RequestedN int `json:"requested_n"`
			EffectiveN int `json:"effective_n"`
		} `json:"dist"`
	}
	decodeData(t, rec, &data)

	if data.Version != "mc_v1" {
		t.Errorf("expected result version mc_v1, got %q", data.Version)
	}
	if data.Dist.RequestedN != iterations {
		t.Errorf("expected requested_n %d, got %d", iterations, data.Dist.RequestedN)
	}
	if data.Dist.EffectiveN == 0 {
		t.Error("expected non-zero effective_n")
	}
}

func TestSystemVersion(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/version", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data map[string]string
	decodeData(t, rec, &data)
	if data["version"] == "" {
		t.Error("expected a version string")
	}
}

func TestSystemIndexDisabled(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/index", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data struct {
		Enabled bool `json:"enabled"`
	}
	decodeData(t, rec, &data)
	if data.Enabled {
		t.Error("expected index to report disabled without a service")
	}
}

func TestContentTypeIsJSON(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected application/json, got %q", got)
	}
}
