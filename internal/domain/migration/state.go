package migration

import "sync/atomic"

type Phase int32

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseMigrated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseRunning:
		return "running"
	case PhaseMigrated:
		return "migrated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State es el guard de "una corrida por proceso". Se inyecta en el Engine;
// cada proceso (o test) crea el suyo.
//
// Pending -> Running -> Migrated | Failed. Solo quien gana el CAS de Pending corre.
// Failed no se reintenta en el mismo proceso; el próximo arranque parte de Pending.
type State struct {
	phase atomic.Int32
}

func NewState() *State {
	return &State{}
}

func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

// begin reclama la corrida. false si otro caller ya la tomó.
func (s *State) begin() bool {
	return s.phase.CompareAndSwap(int32(PhasePending), int32(PhaseRunning))
}

func (s *State) finish(err error) {
	if err != nil {
		s.phase.Store(int32(PhaseFailed))
		return
	}
	s.phase.Store(int32(PhaseMigrated))
}
