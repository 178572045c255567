// Package queue implements the bounded delivery queue that sits between
// producers and the delivery worker.
//
// The queue is a fixed-capacity FIFO. When it is full, Enqueue evicts the
// oldest resident task to make room for the new one, so producers never
// block and the freshest shots survive. Dequeue blocks the single consumer
// until work arrives or the queue is closed and drained.
//
// All state is guarded by one mutex; the consumer waits on a sync.Cond tied
// to that mutex and re-checks its predicate after every wake.
package queue
