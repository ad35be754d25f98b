package ui

import (
	"fmt"

	"tether/internal/leaderboard"
)

// Board is the leaderboard state shown on the game-over panel.
type Board struct {
	Enabled bool
	Loading bool
	Entries []leaderboard.Entry

	// Submitted is set once a submission attempt finished; SubmitErr holds
	// its failure.
	Submitted bool
	SubmitErr error
}

// Status is the one-line summary under the final score.
func (b Board) Status() string {
	switch {
	case !b.Enabled:
		return "RANKING OFFLINE"
	case b.Loading:
		return "SYNCING RANKING..."
	case b.Submitted && b.SubmitErr != nil:
		return "SCORE NOT SUBMITTED"
	case len(b.Entries) == 0:
		return "NO RANKING DATA"
	default:
		return fmt.Sprintf("TOP %d", len(b.Entries))
	}
}

// Lines renders up to limit ranking rows. The row of self, when present, is
// marked.
func (b Board) Lines(notation, self string, limit int) []string {
	if limit <= 0 || limit > len(b.Entries) {
		limit = len(b.Entries)
	}
	out := make([]string, 0, limit)
	for i, e := range b.Entries[:limit] {
		name := e.Name
		if name == "" {
			name = shortKey(e.PubKey)
		}
		mark := " "
		if self != "" && e.PubKey == self {
			mark = ">"
		}
		out = append(out, fmt.Sprintf("%s%2d. %-16.16s %s", mark, i+1, name, FormatScore(e.Score, notation)))
	}
	return out
}

func shortKey(pub string) string {
	if len(pub) <= 8 {
		return pub
	}
	return pub[:8]
}
