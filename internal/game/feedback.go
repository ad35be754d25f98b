package game

import "tether/pkg/core"

// Feedback is a transient hit label for the presentation layer. It is not
// simulation state and never influences a tick.
type Feedback struct {
	Pos            core.Vec2
	Grade          Grade
	Target         TargetType
	StretchPercent float64
	Points         int64
	ExpiresAt      uint64
}

type feedbackLog struct {
	items []Feedback
}

func (l *feedbackLog) push(h Hit, tick, ttl uint64) {
	l.items = append(l.items, Feedback{
		Pos:            h.Target.Pos,
		Grade:          h.Grade,
		Target:         h.Target.Type,
		StretchPercent: h.Stretch * 100,
		Points:         h.Points,
		ExpiresAt:      tick + ttl,
	})
}

func (l *feedbackLog) expire(tick uint64) {
	kept := l.items[:0]
	for _, f := range l.items {
		if f.ExpiresAt > tick {
			kept = append(kept, f)
		}
	}
	l.items = kept
}

func (l *feedbackLog) snapshot() []Feedback {
	if len(l.items) == 0 {
		return nil
	}
	return append([]Feedback(nil), l.items...)
}
