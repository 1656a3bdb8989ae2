package seqqueue

import "sync/atomic"

// Stats is an advisory snapshot of the queue's operation counters. Like
// Len, it carries no guarantee against concurrent mutation.
type Stats struct {
	Puts           uint64
	Gets           uint64
	StaleDrops     uint64
	DuplicateDrops uint64
	FullFailures   uint64
	EmptyFailures  uint64
}

type statCounters struct {
	puts           atomic.Uint64
	gets           atomic.Uint64
	staleDrops     atomic.Uint64
	duplicateDrops atomic.Uint64
	fullFailures   atomic.Uint64
	emptyFailures  atomic.Uint64
}

func (c *statCounters) snapshot() Stats {
	return Stats{
		Puts:           c.puts.Load(),
		Gets:           c.gets.Load(),
		StaleDrops:     c.staleDrops.Load(),
		DuplicateDrops: c.duplicateDrops.Load(),
		FullFailures:   c.fullFailures.Load(),
		EmptyFailures:  c.emptyFailures.Load(),
	}
}

func (c *statCounters) reset() {
	c.puts.Store(0)
	c.gets.Store(0)
	c.staleDrops.Store(0)
	c.duplicateDrops.Store(0)
	c.fullFailures.Store(0)
	c.emptyFailures.Store(0)
}
