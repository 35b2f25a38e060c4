// Package cards provides the minimal card record, card name
// normalization, and the heuristic feature/role tagging used by the
// deck analysis pipeline.
package cards

// Record is the minimal card-database record the pipeline needs. A
// lookup backend may carry more fields; only these participate in
// feature extraction.
type Record struct {
	Name         string   `json:"name"`
	NameNorm     string   `json:"name_norm"`
	TypeLine     string   `json:"type_line"`
	OracleText   string   `json:"oracle_text"`
	ManaCost     string   `json:"mana_cost,omitempty"`
	CMC          float64  `json:"cmc"`
	Colors       []string `json:"colors,omitempty"`
	ProducedMana []string `json:"produced_mana,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}
