// Package identity resolves a runner in the racecard to a finishing
// position in a result set, even when the two sides disagree on how the
// horse is identified.
package identity

import (
	"regexp"
	"strings"

	"github.com/yourusername/racedash/internal/models"
)

// Stage records which matching stage produced a result.
type Stage string

const (
	StageID        Stage = "horse_id"
	StageBareName  Stage = "bare_name"
	StageFuzzy     Stage = "fuzzy_prefix"
	StageAmbiguous Stage = "ambiguous"
	StageNone      Stage = "none"
)

// Match is the outcome of resolving one entry against a race's results.
type Match struct {
	Position int
	Stage    Stage
	Key      string
}

// Matched reports whether the outcome carries a confirmed position.
// Ambiguous fuzzy hits are deliberately not matches: when two distinct
// result rows could both be this runner, the engine reports the
// ambiguity instead of silently picking one.
func (m Match) Matched() bool {
	return m.Stage == StageID || m.Stage == StageBareName || m.Stage == StageFuzzy
}

// countrySuffix strips a trailing parenthetical country code such as
// "(IRE)" or "(FR)" from a display name.
var countrySuffix = regexp.MustCompile(`\s*\([A-Za-z]{2,3}\)\s*$`)

// BareName returns the horse's display name with its country suffix
// removed and case folded, the canonical form result sources agree on.
func BareName(name string) string {
	return strings.ToLower(strings.TrimSpace(countrySuffix.ReplaceAllString(name, "")))
}

// MatchPosition resolves an entry to a finishing position. Stages, in
// order: exact horse-id key, exact bare-name key, prefix-fuzzy on bare
// names. A runner no stage can place is presumed a non-runner or a
// result-source gap; a position is never fabricated.
func MatchPosition(entry *models.RaceEntry, positions models.RacePositions) Match {
	if len(positions) == 0 {
		return Match{Stage: StageNone}
	}

	if entry.HorseID != "" {
		if pos, ok := positions[entry.HorseID]; ok {
			return Match{Position: pos, Stage: StageID, Key: entry.HorseID}
		}
	}

	bare := BareName(entry.HorseName)
	if bare == "" {
		return Match{Stage: StageNone}
	}
	if pos, ok := positions[bare]; ok {
		return Match{Position: pos, Stage: StageBareName, Key: bare}
	}
	// Result keys are not guaranteed to be pre-normalized.
	for key, pos := range positions {
		if BareName(key) == bare {
			return Match{Position: pos, Stage: StageBareName, Key: key}
		}
	}

	return fuzzyMatch(bare, positions)
}

// fuzzyMatch accepts a result key whose bare form is a prefix of the
// runner's bare name or vice versa, absorbing punctuation and
// abbreviation drift between feeds. Multiple distinct keys that
// disagree on position are reported as ambiguous, never resolved by
// iteration order.
func fuzzyMatch(bare string, positions models.RacePositions) Match {
	matchedKey := ""
	matchedPos := 0
	candidates := 0
	agree := true

	for key, pos := range positions {
		candidate := BareName(key)
		if candidate == "" {
			continue
		}
		if strings.HasPrefix(bare, candidate) || strings.HasPrefix(candidate, bare) {
			candidates++
			if candidates == 1 {
				matchedKey = key
				matchedPos = pos
			} else if pos != matchedPos {
				agree = false
			}
		}
	}

	switch {
	case candidates == 0:
		return Match{Stage: StageNone}
	case candidates == 1 || agree:
		return Match{Position: matchedPos, Stage: StageFuzzy, Key: matchedKey}
	default:
		return Match{Stage: StageAmbiguous}
	}
}
