package app

import "go.uber.org/atomic"

// Stats counts what happened to every shot handed to a sender.
// Each posted shot ends up in exactly one of Rejected, Evicted, Delivered,
// Failed or Discarded, or is still queued or in flight.
type Stats struct {
	Accepted  atomic.Uint64
	Rejected  atomic.Uint64
	Evicted   atomic.Uint64
	Delivered atomic.Uint64
	Failed    atomic.Uint64
	Discarded atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Accepted  uint64 `json:"accepted"`
	Rejected  uint64 `json:"rejected"`
	Evicted   uint64 `json:"evicted"`
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
	Discarded uint64 `json:"discarded"`
}

// Snapshot reads every counter.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Accepted:  s.Accepted.Load(),
		Rejected:  s.Rejected.Load(),
		Evicted:   s.Evicted.Load(),
		Delivered: s.Delivered.Load(),
		Failed:    s.Failed.Load(),
		Discarded: s.Discarded.Load(),
	}
}
