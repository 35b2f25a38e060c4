package share

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

func shareState(entries ...deck.Entry) *deck.State {
	return &deck.State{Deck: deck.Deck{Entries: entries}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := shareState(
		deck.Entry{Name: "Monastery Swiftspear", Count: 4, RolePrimary: deck.RolePayoff},
		deck.Entry{Name: "Lightning Bolt", Count: 4, RolePrimary: deck.RoleRemoval},
		deck.Entry{Name: "Mountain", Count: 20, RolePrimary: deck.RoleLand},
	)
	state.PipelinesActive = []string{"P5_ENGINE_PAYOFF"}
	state.Edges = []deck.RoleEdge{{From: deck.RoleRemoval, To: deck.RolePayoff}}

	token, err := Encode(state)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want, err := Canonicalize(state, 1)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, want)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	// Same deck in different entry order and spelling still produces
	// the same token.
	a := shareState(
		deck.Entry{Name: "Lightning Bolt", Count: 2, RolePrimary: deck.RoleRemoval},
		deck.Entry{Name: "Mountain", Count: 20, RolePrimary: deck.RoleLand},
		deck.Entry{Name: "lightning bolt", Count: 2, RolePrimary: deck.RoleRemoval},
	)
	b := shareState(
		deck.Entry{Name: "Mountain", Count: 20, RolePrimary: deck.RoleLand},
		deck.Entry{Name: "Lightning Bolt", Count: 4, RolePrimary: deck.RoleRemoval},
	)
	tokenA, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tokenB, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if tokenA != tokenB {
		t.Errorf("tokens differ for equal decks:\n%s\n%s", tokenA, tokenB)
	}
}

func TestCanonicalizeMergesAndSorts(t *testing.T) {
	canonical, err := Canonicalize(shareState(
		deck.Entry{Name: "Mountain", Count: 20, RolePrimary: deck.RoleLand},
		deck.Entry{Name: "Lightning  Bolt", Count: 2, RolePrimary: deck.RoleRemoval},
		deck.Entry{Name: "lightning bolt", Count: 2, RolePrimary: deck.RoleRemoval},
	), 1)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	entries := canonical.Deck.Entries
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 after merge", len(entries))
	}
	if entries[0].NameNorm != "lightning bolt" || entries[0].Count != 4 {
		t.Errorf("first entry = %+v, want merged bolt x4", entries[0])
	}
	if entries[1].NameNorm != "mountain" {
		t.Errorf("second entry = %+v, want mountain", entries[1])
	}
}

func TestCanonicalizeRejectsBadCount(t *testing.T) {
	_, err := Canonicalize(shareState(
		deck.Entry{Name: "Lightning Bolt", Count: 0, RolePrimary: deck.RoleRemoval},
	), 1)
	if !errors.Is(err, ErrCountInvalid) {
		t.Errorf("err = %v, want ErrCountInvalid", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, token := range []string{"not a token!!", "AAAA", ""} {
		if _, err := Decode(token); !errors.Is(err, ErrDecodeFailed) {
			t.Errorf("Decode(%q) err = %v, want ErrDecodeFailed", token, err)
		}
	}
}

func TestTokenIsURLSafe(t *testing.T) {
	token, err := Encode(shareState(
		deck.Entry{Name: "Lightning Bolt", Count: 4, RolePrimary: deck.RoleRemoval},
	))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token contains non-URL-safe characters: %s", token)
	}
}

func TestHardLimit(t *testing.T) {
	// Thousands of unique names defeat compression enough to pass the
	// hard cap.
	entries := make([]deck.Entry, 0, 3000)
	for i := 0; i < 3000; i++ {
		entries = append(entries, deck.Entry{
			Name:        fmt.Sprintf("card %d %x %d", i, i*2654435761, i*i+17),
			Count:       1 + i%4,
			RolePrimary: deck.RoleUtility,
		})
	}
	_, err := Encode(shareState(entries...))
	if !errors.Is(err, ErrTokenTooLong) {
		t.Errorf("err = %v, want ErrTokenTooLong", err)
	}
}

func TestImportExportJSON(t *testing.T) {
	state := shareState(
		deck.Entry{Name: "Lightning Bolt", Count: 4, RolePrimary: deck.RoleRemoval},
	)
	payload, err := ExportJSON(state)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	imported, err := ImportJSON(payload)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if imported.SchemaVersion != 1 {
		t.Errorf("schema_version = %d, want 1", imported.SchemaVersion)
	}
	if len(imported.Deck.Entries) != 1 || imported.Deck.Entries[0].Count != 4 {
		t.Errorf("entries = %+v", imported.Deck.Entries)
	}
}
