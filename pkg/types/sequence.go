package types

import "sync"

// Sequencer tags outgoing searches with increasing numbers and rejects
// responses that arrive after a newer one was already applied.
type Sequencer struct {
	mu       sync.Mutex
	issued   uint64
	accepted uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns the number for a new request.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether a response for seq may be applied and, if so,
// records it as the latest one.
func (s *Sequencer) Accept(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.accepted {
		return false
	}
	s.accepted = seq
	if seq > s.issued {
		s.issued = seq
	}
	return true
}

// Latest returns the last accepted sequence number.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}
