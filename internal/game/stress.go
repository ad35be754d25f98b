package game

// StressTracker drives the ACTIVE -> BROKEN -> ENDED transitions from the
// tether stretch.
type StressTracker struct {
	rules *Rules
}

// Update evaluates the tether at tick. Danger dwell accumulates while the
// tether is overstretched and decays once it relaxes. Immunity freezes it.
func (st StressTracker) Update(s *Session, tick uint64) {
	r := st.rules
	switch s.Phase() {
	case PhaseActive:
		stats := s.Stats()
		if stats.Stretch > r.DangerThreshold {
			if stats.Effects.Active(EffectImmunity) {
				return
			}
			s.accumulateDanger(r.DT())
			if s.Stats().DangerTime > r.BreakDwell {
				s.breakTether(tick)
			}
			return
		}
		s.relieveDanger()
	case PhaseBroken:
		if tick-s.BreakTick() >= r.Ticks(r.GraceDelay) {
			s.end(EndTetherBroken, tick)
		}
	}
}
