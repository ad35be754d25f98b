// Package leaderboard publishes run scores to Nostr relays as replaceable
// application events and reads back a ranked table.
package leaderboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tether/internal/game"
)

// AppTag identifies this game's score events on shared relays.
const AppTag = "tether-arcade-v1"

// Event kinds used by the leaderboard.
const (
	KindProfile = 0
	KindScore   = 30078
)

var (
	// ErrNoIdentity is returned when publishing without a signer.
	ErrNoIdentity = errors.New("leaderboard: no identity")
	// ErrRejected is returned when a relay refuses an event.
	ErrRejected = errors.New("leaderboard: event rejected")
)

// Identity is the player's key pair, supplied by the host.
type Identity interface {
	PublicKey() string
	// Sign returns the hex signature of the 32-byte event id.
	Sign(id []byte) (string, error)
}

// Payload is the content of a score event.
type Payload struct {
	Score     int64         `json:"score"`
	BestCombo int           `json:"bestCombo"`
	Settings  game.Settings `json:"settings"`
	Timestamp int64         `json:"timestamp"`
}

// Event is a Nostr event as exchanged with relays.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Tag returns the first value of the named tag.
func (e Event) Tag(name string) (string, bool) {
	for _, t := range e.Tags {
		if len(t) >= 2 && t[0] == name {
			return t[1], true
		}
	}
	return "", false
}

// Hash returns the sha256 of the event's canonical serialization.
func (e Event) Hash() [32]byte {
	tags := e.Tags
	if tags == nil {
		tags = [][]string{}
	}
	data, _ := json.Marshal([]any{0, e.PubKey, e.CreatedAt, e.Kind, tags, e.Content})
	return sha256.Sum256(data)
}

// ComputeID returns the hex event id.
func (e Event) ComputeID() string {
	h := e.Hash()
	return hex.EncodeToString(h[:])
}

// NewScoreEvent builds and signs the replaceable score event for res.
func NewScoreEvent(id Identity, res game.Result, now time.Time) (Event, error) {
	if id == nil {
		return Event{}, ErrNoIdentity
	}
	content, err := json.Marshal(Payload{
		Score:     res.Score,
		BestCombo: res.BestCombo,
		Settings:  res.Settings,
		Timestamp: now.Unix(),
	})
	if err != nil {
		return Event{}, fmt.Errorf("leaderboard: marshal payload: %w", err)
	}
	ev := Event{
		PubKey:    id.PublicKey(),
		CreatedAt: now.Unix(),
		Kind:      KindScore,
		Tags:      [][]string{{"d", AppTag}},
		Content:   string(content),
	}
	h := ev.Hash()
	ev.ID = hex.EncodeToString(h[:])
	sig, err := id.Sign(h[:])
	if err != nil {
		return Event{}, fmt.Errorf("leaderboard: sign: %w", err)
	}
	ev.Sig = sig
	return ev, nil
}

// Profile is the display metadata published in kind 0 events.
type Profile struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Picture     string `json:"picture"`
}

// Label prefers the display name over the handle.
func (p Profile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
