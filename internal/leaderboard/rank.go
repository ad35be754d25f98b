package leaderboard

import (
	"encoding/json"
	"sort"

	"tether/internal/game"
)

// DefaultTopN bounds the ranked table.
const DefaultTopN = 50

// Entry is one row of the ranked table.
type Entry struct {
	PubKey    string        `json:"pubkey"`
	Name      string        `json:"name,omitempty"`
	Picture   string        `json:"picture,omitempty"`
	Score     int64         `json:"score"`
	BestCombo int           `json:"bestCombo"`
	Settings  game.Settings `json:"settings"`
	Timestamp int64         `json:"timestamp"`
}

// Rank keeps the latest score event per public key, attaches profiles, and
// returns the top n by score. Events that are not well-formed score events are
// skipped.
func Rank(events []Event, profiles map[string]Profile, n int) []Entry {
	if n <= 0 {
		n = DefaultTopN
	}
	latest := make(map[string]Entry)
	for _, ev := range events {
		if !isScoreEvent(ev) {
			continue
		}
		if prev, ok := latest[ev.PubKey]; ok && prev.Timestamp >= ev.CreatedAt {
			continue
		}
		var p Payload
		if err := json.Unmarshal([]byte(ev.Content), &p); err != nil || p.Score < 0 {
			continue
		}
		latest[ev.PubKey] = Entry{
			PubKey:    ev.PubKey,
			Score:     p.Score,
			BestCombo: p.BestCombo,
			Settings:  p.Settings,
			Timestamp: ev.CreatedAt,
		}
	}

	entries := make([]Entry, 0, len(latest))
	for pub, e := range latest {
		if prof, ok := profiles[pub]; ok {
			e.Name = prof.Label()
			e.Picture = prof.Picture
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.PubKey < b.PubKey
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Profiles decodes the latest kind 0 event per public key.
func Profiles(events []Event) map[string]Profile {
	out := make(map[string]Profile)
	seen := make(map[string]int64)
	for _, ev := range events {
		if ev.Kind != KindProfile || ev.PubKey == "" {
			continue
		}
		if at, ok := seen[ev.PubKey]; ok && at >= ev.CreatedAt {
			continue
		}
		var p Profile
		if err := json.Unmarshal([]byte(ev.Content), &p); err != nil {
			continue
		}
		out[ev.PubKey] = p
		seen[ev.PubKey] = ev.CreatedAt
	}
	return out
}

func isScoreEvent(ev Event) bool {
	if ev.Kind != KindScore || ev.PubKey == "" {
		return false
	}
	d, ok := ev.Tag("d")
	return ok && d == AppTag
}
