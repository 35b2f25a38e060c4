// Package deckimport parses pasted deck-list text into deduplicated
// card entries, accumulating structured issues instead of failing on
// malformed lines.
package deckimport

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/cards"
	"github.com/ramonehamilton/Deck-Analyzer/internal/mtga/deck"
)

// IssueCode identifies a parse-level issue.
type IssueCode string

const (
	IssueLineUnparseable IssueCode = "LINE_UNPARSEABLE"
	IssueCountInvalid    IssueCode = "COUNT_INVALID"
	IssueEmptyDeck       IssueCode = "EMPTY_DECK"
	IssueSideboard       IssueCode = "SIDEBOARD_IGNORED"
	IssueDuplicates      IssueCode = "DUPLICATES_MERGED"
	IssueRolesDefaulted  IssueCode = "ROLES_DEFAULTED_TO_UTILITY"
)

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one structured parse or enrichment problem. Line is 1-based
// and zero when the issue applies to the whole deck.
type Issue struct {
	Code     IssueCode `json:"code"`
	Severity Severity  `json:"severity"`
	Line     int       `json:"line,omitempty"`
	Message  string    `json:"message"`
}

// Result holds the parsed deck plus every issue found along the way.
type Result struct {
	Deck   deck.Deck `json:"deck"`
	Issues []Issue   `json:"issues"`
}

var (
	bulletRe      = regexp.MustCompile(`^[\-\*\x{2022}]+\s*`)
	parenRe       = regexp.MustCompile(`\([^)]*\)`)
	trailingNumRe = regexp.MustCompile(`\s*\d+\s*$`)
	cardLineRe    = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	arenaSuffixRe = regexp.MustCompile(`\s+\([^)]+\)\s+\d+\s*$`)
)

// Parse processes raw deck text line by line. Card lines must match
// "<count> <card name>"; set codes, collector numbers, and bullet
// markers are stripped first. A "Sideboard" marker stops processing and
// everything after it is ignored with a single warning. Duplicate names
// merge by normalized name, summing counts. Parse never fails on bad
// lines; issues accumulate in the result.
func Parse(input string) *Result {
	issues := make([]Issue, 0)
	byNorm := make(map[string]*deck.Entry)

	var sideboardWarned, duplicatesWarned bool

	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")

	for i, line := range lines {
		lineNo := i + 1

		raw := strings.Join(strings.Fields(line), " ")
		raw = bulletRe.ReplaceAllString(raw, "")
		raw = strings.TrimSpace(parenRe.ReplaceAllString(raw, ""))
		raw = strings.TrimSpace(trailingNumRe.ReplaceAllString(raw, ""))

		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "deck") {
			continue
		}

		if strings.EqualFold(raw, "sideboard") {
			if !sideboardWarned {
				issues = append(issues, Issue{
					Code:     IssueSideboard,
					Severity: SeverityWarning,
					Line:     lineNo,
					Message:  "Sideboard ignored.",
				})
				sideboardWarned = true
			}
			break
		}

		matches := cardLineRe.FindStringSubmatch(raw)
		if matches == nil {
			issues = append(issues, Issue{
				Code:     IssueLineUnparseable,
				Severity: SeverityError,
				Line:     lineNo,
				Message:  "Line does not match '<count> <card_name>'.",
			})
			continue
		}

		count, err := strconv.Atoi(matches[1])
		if err != nil || count < 1 {
			issues = append(issues, Issue{
				Code:     IssueCountInvalid,
				Severity: SeverityError,
				Line:     lineNo,
				Message:  "Count must be an integer >= 1.",
			})
			continue
		}

		name := strings.TrimSpace(matches[2])
		if arenaSuffixRe.MatchString(name) {
			name = strings.TrimSpace(arenaSuffixRe.ReplaceAllString(name, ""))
		}

		nameNorm := cards.Normalize(name)
		if existing, ok := byNorm[nameNorm]; ok {
			existing.Count += count
			if !duplicatesWarned {
				issues = append(issues, Issue{
					Code:     IssueDuplicates,
					Severity: SeverityWarning,
					Message:  "Duplicate card lines merged.",
				})
				duplicatesWarned = true
			}
			continue
		}

		byNorm[nameNorm] = &deck.Entry{
			Name:        name,
			NameNorm:    nameNorm,
			Count:       count,
			RolePrimary: deck.RoleUtility,
		}
	}

	norms := make([]string, 0, len(byNorm))
	for nameNorm := range byNorm {
		norms = append(norms, nameNorm)
	}
	sort.Strings(norms)

	entries := make([]deck.Entry, 0, len(norms))
	for _, nameNorm := range norms {
		entries = append(entries, *byNorm[nameNorm])
	}

	if len(entries) > 0 {
		issues = append(issues, Issue{
			Code:     IssueRolesDefaulted,
			Severity: SeverityWarning,
			Message:  "Roles defaulted to UTILITY.",
		})
	} else {
		issues = append(issues, Issue{
			Code:     IssueEmptyDeck,
			Severity: SeverityError,
			Message:  "No valid cards found in deck.",
		})
	}

	return &Result{Deck: deck.Deck{Entries: entries}, Issues: issues}
}
