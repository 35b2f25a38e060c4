// Package handlers implements the REST API endpoints.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/Deck-Analyzer/internal/api/response"
	"github.com/ramonehamilton/Deck-Analyzer/internal/api/websocket"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/analyzer"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/montecarlo"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/validate"
)

// progressStride limits how many mc_progress events one simulation
// emits.
const progressStride = 50

// DeckHandler handles deck analysis API requests.
type DeckHandler struct {
	analyzer *analyzer.Analyzer
	hub      *websocket.Hub
}

// NewDeckHandler creates a new DeckHandler. The hub may be nil when no
// WebSocket transport is attached.
func NewDeckHandler(a *analyzer.Analyzer, hub *websocket.Hub) *DeckHandler {
	return &DeckHandler{analyzer: a, hub: hub}
}

// AnalyzeRequest accepts either raw deck text or an assembled state.
type AnalyzeRequest struct {
	Text  string      `json:"text,omitempty"`
	State *deck.State `json:"state,omitempty"`
}

// Analyze parses (or accepts) a deck and returns the structural
// analysis.
func (h *DeckHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var result *analyzer.Result
	switch {
	case req.Text != "":
		result = h.analyzer.AnalyzeText(r.Context(), req.Text)
	case req.State != nil:
		result = h.analyzer.AnalyzeState(req.State)
	default:
		response.BadRequest(w, fmt.Errorf("either text or state is required"))
		return
	}

	response.Success(w, result)
}

// ValidateRequest wraps a deck state to check.
type ValidateRequest struct {
	State *deck.State `json:"state"`
}

// ValidateResponse lists the advisory issues found.
type ValidateResponse struct {
	Issues []validate.IssueCode `json:"issues"`
}

// Validate runs the advisory checks over a deck state.
func (h *DeckHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.State == nil {
		response.BadRequest(w, fmt.Errorf("state is required"))
		return
	}

	issues := validate.State(req.State)
	if issues == nil {
		issues = []validate.IssueCode{}
	}
	response.Success(w, ValidateResponse{Issues: issues})
}

// MonteCarloRequest carries a deck state and optional simulation
// settings.
type MonteCarloRequest struct {
	State    *deck.State          `json:"state"`
	Settings *montecarlo.Settings `json:"settings,omitempty"`
}

// MonteCarlo runs the swap-1 robustness simulation, streaming progress
// over the WebSocket hub while it runs.
func (h *DeckHandler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.State == nil {
		response.BadRequest(w, fmt.Errorf("state is required"))
		return
	}

	var onProgress func(completed, total int)
	if h.hub != nil {
		onProgress = func(completed, total int) {
			if completed%progressStride == 0 || completed == total {
				h.hub.BroadcastEvent(websocket.NewMCProgressEvent(completed, total))
			}
		}
	}

	result, err := h.analyzer.Simulate(r.Context(), req.State, req.Settings, nil, onProgress)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastEvent(websocket.NewMCCompleteEvent(result.Metrics))
	}
	response.Success(w, result)
}
