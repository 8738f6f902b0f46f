package browse

// Sequencer issues monotonically increasing search generations per view key.
// Every edit that changes what a view would fetch takes a fresh generation,
// and anything stamped with an older one is ignored downstream. Counters are
// never rewound while a view lives; renaming a view carries its counter along.
type Sequencer struct {
	last map[string]int64
}

func newSequencer() *Sequencer {
	return &Sequencer{last: make(map[string]int64)}
}

// Next issues the next search generation for the view key.
func (s *Sequencer) Next(viewKey string) int64 {
	s.last[viewKey]++
	return s.last[viewKey]
}

// Current returns the most recently issued generation, zero if none.
func (s *Sequencer) Current(viewKey string) int64 {
	return s.last[viewKey]
}

// move transfers a view's counter to a new key on rename.
func (s *Sequencer) move(oldKey, newKey string) {
	if n, ok := s.last[oldKey]; ok {
		s.last[newKey] = n
		delete(s.last, oldKey)
	}
}

// drop forgets a deleted view's counter.
func (s *Sequencer) drop(viewKey string) {
	delete(s.last, viewKey)
}
