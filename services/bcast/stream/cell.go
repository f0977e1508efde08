package stream

import "sync/atomic"

type snapshot[T any] struct {
	running  bool
	health   Health
	sequence uint64
	data     T
}

func (s *snapshot[T]) state() State {
	return State{Running: s.running, Health: s.health, Sequence: s.sequence}
}

// cell holds the latest snapshot of a feed. Only the worker stores, from its
// loop or under its mutex while no loop runs;
// readers load without blocking it.
type cell[T any] struct {
	p atomic.Pointer[snapshot[T]]
}

func newCell[T any](initial T) *cell[T] {
	c := &cell[T]{}
	c.p.Store(&snapshot[T]{health: HealthUnknown, data: initial})
	return c
}

func (c *cell[T]) load() *snapshot[T] {
	return c.p.Load()
}

func (c *cell[T]) store(s *snapshot[T]) {
	c.p.Store(s)
}
