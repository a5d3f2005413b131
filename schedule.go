package writeedit

import "sync/atomic"

// DefaultSyncThreshold is the combined input size, in bytes, above which diff
// computation moves off the calling goroutine.
const DefaultSyncThreshold = 5000

// DiffResult is the outcome of one scheduled diff computation.
type DiffResult struct {
	Seq      uint64 // request sequence number, for staleness checks
	Doc      *TrackedDocument
	Fallback bool // true when the computation failed and Doc is a degraded single-run view
}

// Scheduler decides whether to compute a diff on the calling goroutine or in
// the background, and correlates responses with requests so that a result
// arriving after a newer request was issued can be recognized as stale.
type Scheduler struct {
	differ    WordDiffer
	threshold int
	seq       atomic.Uint64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSyncThreshold overrides the size below which diffs run synchronously.
func WithSyncThreshold(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.threshold = n
	}
}

// NewScheduler creates a Scheduler around the given differ.
func NewScheduler(differ WordDiffer, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{differ: differ, threshold: DefaultSyncThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule computes the tracked document for an original/edited pair. Small
// inputs are diffed on the calling goroutine and the returned channel is
// already resolved; larger inputs are diffed in the background. The channel
// always receives exactly one result: a panicking computation degrades to the
// whole edited text as a single plain run rather than leaving the caller
// empty.
func (s *Scheduler) Schedule(original, edited string) <-chan DiffResult {
	seq := s.seq.Add(1)
	ch := make(chan DiffResult, 1)
	if len(original)+len(edited) <= s.threshold {
		ch <- s.compute(seq, original, edited)
		return ch
	}
	go func() {
		ch <- s.compute(seq, original, edited)
	}()
	return ch
}

// Stale reports whether a newer request was issued after the one that
// produced r. Stale results must be discarded, never applied.
func (s *Scheduler) Stale(r DiffResult) bool {
	return r.Seq != s.seq.Load()
}

func (s *Scheduler) compute(seq uint64, original, edited string) (res DiffResult) {
	res = DiffResult{Seq: seq}
	defer func() {
		if recover() == nil {
			return
		}
		doc := &TrackedDocument{}
		if edited != "" {
			doc.Nodes = []Node{{Kind: NodeText, Text: edited}}
		}
		res.Doc = doc
		res.Fallback = true
	}()
	res.Doc = Format(s.differ.Diff(original, edited))
	return res
}
