package cardindex

import (
	"context"
	"sync"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
)

// Store is the persistent card cache behind the in-memory index. A nil
// record with a nil error means a cache miss.
type Store interface {
	GetCard(ctx context.Context, nameNorm string) (*cards.Record, error)
	SaveCard(ctx context.Context, record *cards.Record) error
}

// Service provides card lookup backed by the published index, with an
// optional persistent cache for offline fallback.
type Service struct {
	client *Client
	store  Store

	mu    sync.Mutex
	index *Index
}

// NewService creates a lookup service. The store may be nil, in which
// case lookups require a live index fetch.
func NewService(client *Client, store Store) *Service {
	return &Service{client: client, store: store}
}

// loadIndex fetches the index once and keeps it until ClearCache.
func (s *Service) loadIndex(ctx context.Context) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		return s.index, nil
	}
	index, err := s.client.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	s.index = index
	return index, nil
}

// Lookup resolves a normalized card name. Index hits are written
// through to the store; when the index is unreachable the store serves
// as fallback before the error propagates.
func (s *Service) Lookup(ctx context.Context, nameNorm string) (*cards.Record, error) {
	index, err := s.loadIndex(ctx)
	if err != nil {
		if s.store != nil {
			if record, storeErr := s.store.GetCard(ctx, nameNorm); storeErr == nil && record != nil {
				return record, nil
			}
		}
		return nil, err
	}

	record := index.Find(nameNorm)
	if record == nil {
		return nil, nil
	}
	if s.store != nil {
		// Cache write failures never fail a lookup.
		_ = s.store.SaveCard(ctx, record)
	}
	return record, nil
}

// Count reports how many cards the loaded index holds.
func (s *Service) Count(ctx context.Context) (int, error) {
	index, err := s.loadIndex(ctx)
	if err != nil {
		return 0, err
	}
	return index.Count(), nil
}

// ClearCache drops the in-memory index so the next lookup refetches.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
}
