package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/Deck-Analyzer/internal/api/response"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/share"
)

// ShareHandler handles share token encode/decode requests.
type ShareHandler struct{}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler() *ShareHandler {
	return &ShareHandler{}
}

// EncodeRequest wraps the deck state to share.
type EncodeRequest struct {
	State *deck.State `json:"state"`
}

// EncodeResponse carries the token and whether it exceeds the advisory
// length.
type EncodeResponse struct {
	Token string `json:"token"`
	Warn  bool   `json:"warn"`
}

// Encode canonicalizes a deck state into a share token.
func (h *ShareHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.State == nil {
		response.BadRequest(w, fmt.Errorf("state is required"))
		return
	}

	token, err := share.Encode(req.State)
	if err != nil {
		switch {
		case errors.Is(err, share.ErrTokenTooLong), errors.Is(err, share.ErrCountInvalid):
			response.UnprocessableEntity(w, err)
		default:
			response.InternalError(w, err)
		}
		return
	}

	response.Success(w, EncodeResponse{Token: token, Warn: share.IsWarn(token)})
}

// DecodeRequest wraps the token to decode.
type DecodeRequest struct {
	Token string `json:"token"`
}

// Decode turns a share token back into a canonical deck state.
func (h *ShareHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Token == "" {
		response.BadRequest(w, fmt.Errorf("token is required"))
		return
	}

	state, err := share.Decode(req.Token)
	if err != nil {
		if errors.Is(err, share.ErrDecodeFailed) {
			response.UnprocessableEntity(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, state)
}
