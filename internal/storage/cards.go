package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
)

// CardRepository persists card records keyed by normalized name. It
// backs the lookup service's offline fallback.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a card repository over an open database.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// GetCard fetches a cached card by normalized name. A missing card
// returns (nil, nil).
func (r *CardRepository) GetCard(ctx context.Context, nameNorm string) (*cards.Record, error) {
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT name, name_norm, type_line, oracle_text, mana_cost, cmc,
		       colors, produced_mana, keywords
		FROM cards WHERE name_norm = ?`, nameNorm)

	var record cards.Record
	var colors, producedMana, keywords string
	err := row.Scan(
		&record.Name, &record.NameNorm, &record.TypeLine, &record.OracleText,
		&record.ManaCost, &record.CMC, &colors, &producedMana, &keywords,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", nameNorm, err)
	}

	if err := json.Unmarshal([]byte(colors), &record.Colors); err != nil {
		return nil, fmt.Errorf("failed to decode colors for %q: %w", nameNorm, err)
	}
	if err := json.Unmarshal([]byte(producedMana), &record.ProducedMana); err != nil {
		return nil, fmt.Errorf("failed to decode produced_mana for %q: %w", nameNorm, err)
	}
	if err := json.Unmarshal([]byte(keywords), &record.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords for %q: %w", nameNorm, err)
	}
	return &record, nil
}

// SaveCard upserts a card record.
func (r *CardRepository) SaveCard(ctx context.Context, record *cards.Record) error {
	colors, err := json.Marshal(sliceOrEmpty(record.Colors))
	if err != nil {
		return fmt.Errorf("failed to encode colors: %w", err)
	}
	producedMana, err := json.Marshal(sliceOrEmpty(record.ProducedMana))
	if err != nil {
		return fmt.Errorf("failed to encode produced_mana: %w", err)
	}
	keywords, err := json.Marshal(sliceOrEmpty(record.Keywords))
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO cards (name_norm, name, type_line, oracle_text, mana_cost,
		                   cmc, colors, produced_mana, keywords, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_norm) DO UPDATE SET
			name = excluded.name,
			type_line = excluded.type_line,
			oracle_text = excluded.oracle_text,
			mana_cost = excluded.mana_cost,
			cmc = excluded.cmc,
			colors = excluded.colors,
			produced_mana = excluded.produced_mana,
			keywords = excluded.keywords,
			last_updated = excluded.last_updated`,
		record.NameNorm, record.Name, record.TypeLine, record.OracleText,
		record.ManaCost, record.CMC, string(colors), string(producedMana),
		string(keywords), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save card %q: %w", record.NameNorm, err)
	}
	return nil
}

// CountCards returns the number of cached cards.
func (r *CardRepository) CountCards(ctx context.Context) (int, error) {
	var count int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// PruneStale deletes cards not refreshed since the cutoff and reports
// how many rows went away.
func (r *CardRepository) PruneStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM cards WHERE last_updated < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune stale cards: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}
	return affected, nil
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
