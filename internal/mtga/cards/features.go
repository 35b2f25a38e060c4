package cards

import (
	"math"
	"regexp"
	"strings"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

// textRule is one named oracle-text pattern. The table is data so the
// heuristics can be extended and tested without touching role inference.
type textRule struct {
	name string
	re   *regexp.Regexp
	set  func(f *deck.Features)
}

var textRules = []textRule{
	{
		name: "draws_cards",
		re:   regexp.MustCompile(`(?i)\bdraw (a|two|three|four|five|six|seven|eight|nine|ten) cards?\b`),
		set:  func(f *deck.Features) { f.DrawsCards = true },
	},
	{
		name: "removes",
		re:   regexp.MustCompile(`(?i)\bdestroy target\b|\bexile target\b|\bdeals? .* damage to target creature\b`),
		set:  func(f *deck.Features) { f.Removes = true },
	},
	{
		name: "protects",
		re:   regexp.MustCompile(`(?i)\bhexproof\b|\bindestructible\b|\bprotection from\b|\bprevent all damage\b`),
		set:  func(f *deck.Features) { f.Protects = true },
	},
	{
		name: "tutors",
		re:   regexp.MustCompile(`(?i)\bsearch your library\b`),
		set:  func(f *deck.Features) { f.Tutors = true },
	},
	{
		name: "creates_tokens",
		re:   regexp.MustCompile(`(?i)\bcreate\b.*\btoken\b`),
		set:  func(f *deck.Features) { f.CreatesTokens = true },
	},
	{
		name: "has_haste",
		re:   regexp.MustCompile(`(?i)\bhaste\b`),
		set:  func(f *deck.Features) { f.HasHaste = true },
	},
	{
		name: "has_prowess",
		re:   regexp.MustCompile(`(?i)\bprowess\b`),
		set:  func(f *deck.Features) { f.HasProwess = true },
	},
	{
		name: "is_anthem",
		re:   regexp.MustCompile(`(?i)\bcreatures you control get \+`),
		set:  func(f *deck.Features) { f.IsAnthem = true },
	},
	{
		name: "cares_about_spells",
		re:   regexp.MustCompile(`(?i)\bwhenever you cast (an instant or sorcery|a noncreature) spell\b`),
		set:  func(f *deck.Features) { f.CaresAboutSpells = true },
	},
	{
		name: "recurs_from_graveyard",
		re:   regexp.MustCompile(`(?i)\breturn\b.*\bfrom your graveyard\b`),
		set:  func(f *deck.Features) { f.RecursFromGrave = true },
	},
}

var (
	producesManaRe    = regexp.MustCompile(`(?i)\badd \{`)
	producesManaAltRe = regexp.MustCompile(`(?i)\badds one mana\b`)
	typeSplitRe       = regexp.MustCompile(`[\x{2014}-]`)
)

// parseTypes takes the segment of the type line before the first
// em-dash or hyphen, capturing supertypes and card types while dropping
// subtypes.
func parseTypes(typeLine string) []string {
	if typeLine == "" {
		return []string{}
	}
	head := typeSplitRe.Split(typeLine, 2)[0]
	return strings.Fields(head)
}

// cmcBucket maps a mana value to the 0..5 bucket: 0 for non-finite or
// non-positive values, 5 for mana value >= 5, else the ceiling of the
// value.
func cmcBucket(cmc float64) int {
	if math.IsNaN(cmc) || math.IsInf(cmc, 0) || cmc <= 0 {
		return 0
	}
	switch {
	case cmc <= 1:
		return 1
	case cmc <= 2:
		return 2
	case cmc <= 3:
		return 3
	case cmc <= 4:
		return 4
	default:
		return 5
	}
}

// ExtractFeatures derives the boolean/categorical feature snapshot for
// a card record. It is pure and total; missing fields read as absent.
func ExtractFeatures(card *Record) *deck.Features {
	features := &deck.Features{Types: []string{}}
	if card == nil {
		return features
	}

	features.Types = parseTypes(card.TypeLine)
	features.CmcBucket = cmcBucket(card.CMC)

	for _, t := range features.Types {
		if t == "Creature" {
			features.IsCreature = true
			break
		}
	}

	text := card.OracleText
	for _, rule := range textRules {
		if rule.re.MatchString(text) {
			rule.set(features)
		}
	}

	features.ProducesMana = len(card.ProducedMana) > 0 ||
		producesManaRe.MatchString(text) ||
		producesManaAltRe.MatchString(text)
	features.IsLowCmcCreature = features.IsCreature && features.CmcBucket <= 2

	return features
}
