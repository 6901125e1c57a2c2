package rtkaller

import (
	"fmt"
	"sync/atomic"
)

// Stats holds the fuzz loop's running counters. Grounded on the teacher's use
// of atomic.Load/StoreUint32 for lock-free counters read by a separate
// sampler goroutine (ring.go's head/tail indices); here three independent
// uint64 counters are incremented by the loop goroutine and snapshotted by
// the stats-sampler goroutine every 10s (see fuzz.go).
type Stats struct {
	executed uint64
	failed   uint64
	crashed  uint64
}

func (s *Stats) IncExecuted() { atomic.AddUint64(&s.executed, 1) }
func (s *Stats) IncFailed()   { atomic.AddUint64(&s.failed, 1) }
func (s *Stats) IncCrashed()  { atomic.AddUint64(&s.crashed, 1) }

func (s *Stats) Executed() uint64 { return atomic.LoadUint64(&s.executed) }
func (s *Stats) Failed() uint64   { return atomic.LoadUint64(&s.failed) }
func (s *Stats) Crashed() uint64  { return atomic.LoadUint64(&s.crashed) }

func (s *Stats) String() string {
	return fmt.Sprintf("executed=%d failed=%d crashed=%d", s.Executed(), s.Failed(), s.Crashed())
}
