// Package share turns a deck state into a compact URL-safe token and
// back. The payload is canonicalized before encoding so equal decks
// yield equal tokens.
package share

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

const (
	// WarnChars is the advisory token length; most URL handlers cope
	// well beyond it but some chat clients truncate.
	WarnChars = 2000
	// HardChars is the encoding limit. Tokens past it are refused.
	HardChars = 3500

	defaultSchemaVersion = 1
)

// ErrTokenTooLong means the canonical payload compressed past the hard
// token limit.
var ErrTokenTooLong = errors.New("share: token exceeds hard length limit")

// IsWarn reports whether a token is past the advisory length.
func IsWarn(token string) bool {
	return len(token) > WarnChars
}

// Encode canonicalizes the state and emits its share token.
func Encode(state *deck.State) (string, error) {
	canonical, err := Canonicalize(state, defaultSchemaVersion)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("share: marshal payload: %w", err)
	}
	token, err := encodeToken(payload)
	if err != nil {
		return "", err
	}
	if len(token) > HardChars {
		return "", ErrTokenTooLong
	}
	return token, nil
}

// Decode reverses Encode and re-canonicalizes the result, so a decoded
// state is safe to feed straight back into analysis.
func Decode(token string) (*State, error) {
	payload, err := decodeToken(token)
	if err != nil {
		return nil, err
	}
	var raw State
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	version := raw.SchemaVersion
	if version == 0 {
		version = defaultSchemaVersion
	}
	canonical, err := Canonicalize(&deck.State{
		Deck:            raw.Deck,
		Edges:           raw.Edges,
		PipelinesActive: raw.PipelinesActive,
		Sim:             raw.Sim,
	}, version)
	if err != nil {
		return nil, err
	}
	return canonical, nil
}

// ExportJSON renders the canonical payload without compressing it,
// for storage and debugging.
func ExportJSON(state *deck.State) ([]byte, error) {
	canonical, err := Canonicalize(state, defaultSchemaVersion)
	if err != nil {
		return nil, err
	}
	return json.Marshal(canonical)
}

// ImportJSON parses and re-canonicalizes an exported payload.
func ImportJSON(payload []byte) (*State, error) {
	var raw State
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("share: parse payload: %w", err)
	}
	version := raw.SchemaVersion
	if version == 0 {
		version = defaultSchemaVersion
	}
	return Canonicalize(&deck.State{
		Deck:            raw.Deck,
		Edges:           raw.Edges,
		PipelinesActive: raw.PipelinesActive,
		Sim:             raw.Sim,
	}, version)
}
