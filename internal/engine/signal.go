package engine

import "sync"

// signal is a one-shot rendezvous: it goes from unset to set exactly once.
//
// Posting closes a channel, so every wait that follows the post returns and
// the post happens-before the wait's return. Extra posts are absorbed by the
// sync.Once instead of leaving a stray permit behind.
type signal struct {
	once sync.Once
	c    chan struct{}
}

func newSignal() *signal {
	return &signal{c: make(chan struct{})}
}

func (s *signal) post() {
	s.once.Do(func() { close(s.c) })
}

func (s *signal) wait() {
	<-s.c
}
