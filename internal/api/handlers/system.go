package handlers

import (
	"net/http"

	"github.com/ramonehamilton/Deck-Analyzer/internal/api/response"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cardindex"
	"github.com/ramonehamilton/Deck-Analyzer/internal/version"
)

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	index *cardindex.Service
}

// NewSystemHandler creates a new SystemHandler. The index service may
// be nil when card tagging is disabled.
func NewSystemHandler(index *cardindex.Service) *SystemHandler {
	return &SystemHandler{index: index}
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": "deck-analyzer-api",
	})
}

// GetIndexStatus reports whether the card index is reachable and how
// many cards it holds.
func (h *SystemHandler) GetIndexStatus(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		response.Success(w, map[string]interface{}{"enabled": false})
		return
	}

	count, err := h.index.Count(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"enabled": true,
		"count":   count,
	})
}

// RefreshIndex drops the cached index so the next lookup refetches it.
func (h *SystemHandler) RefreshIndex(w http.ResponseWriter, _ *http.Request) {
	if h.index == nil {
		response.Success(w, map[string]interface{}{"enabled": false})
		return
	}
	h.index.ClearCache()
	response.Success(w, map[string]string{"status": "cleared"})
}
