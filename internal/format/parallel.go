package format

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkItem holds one FORMAT value waiting to be split.
type WorkItem struct {
	Seq   int
	Value string
}

// WorkResult holds the split output for a single value.
type WorkResult struct {
	Seq    int
	Fields Fields
	Err    error
}

// Splitter splits many FORMAT values with a pool of workers.
type Splitter struct {
	workers int
	logger  *zap.Logger
}

// NewSplitter creates a splitter using runtime.NumCPU() workers.
func NewSplitter() *Splitter {
	return &Splitter{logger: zap.NewNop()}
}

// SetWorkers sets the worker count. Zero or less means runtime.NumCPU().
func (s *Splitter) SetWorkers(n int) {
	s.workers = n
}

// SetLogger sets the logger for debug messages.
func (s *Splitter) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ParallelSplit splits work items using a pool of workers.
// Results are sent in arrival order; use OrderedCollect to restore sequence order.
func (s *Splitter) ParallelSplit(items <-chan WorkItem) <-chan WorkResult {
	workers := s.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				f, err := Split(item.Value)
				results <- WorkResult{Seq: item.Seq, Fields: f, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// SplitAll splits every value and returns the fields in input order.
// The first failing row (in input order) aborts the whole batch.
func (s *Splitter) SplitAll(values []string) ([]Fields, error) {
	items := make(chan WorkItem)
	done := make(chan struct{})
	go func() {
		defer close(items)
		for i, v := range values {
			select {
			case items <- WorkItem{Seq: i, Value: v}:
			case <-done:
				return
			}
		}
	}()

	out := make([]Fields, 0, len(values))
	nanRows := 0
	err := OrderedCollect(s.ParallelSplit(items), func(r WorkResult) error {
		if r.Err != nil {
			close(done)
			var fe *FieldError
			if errors.As(r.Err, &fe) {
				fe.Row = r.Seq
			}
			return r.Err
		}
		if math.IsNaN(r.Fields.VAF) {
			nanRows++
		}
		out = append(out, r.Fields)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if nanRows > 0 {
		s.logger.Debug("zero allele depth, vaf is NaN", zap.Int("rows", nanRows))
	}
	return out, nil
}
