// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mergesort implements an in-place merge sort whose recursion
// runs both halves concurrently while a thread budget remains.
//
// A call with budget t > 1 splits its range at the midpoint, gives
// t/2 to the left half and t-t/2 to the right half, joins both and
// merges them. A call with budget 1 sorts its range serially. The
// budgets of all running leaves sum to the top level budget, so at most
// that many serial subtrees run at once.
//
// Each recursive call only sees its own sub-slice, and the left half is
// capped at the split point, so sibling calls cannot reach each other's
// elements.
package mergesort

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/parsort/pkg/common/concurrent"
	"github.com/matrixorigin/parsort/pkg/common/moerr"
	"github.com/matrixorigin/parsort/pkg/logutil"
	"github.com/matrixorigin/parsort/pkg/perfcounter"
	v2 "github.com/matrixorigin/parsort/pkg/util/metric/v2"
)

// Sort sorts a[p:r] in place using at most threads concurrent subtrees.
// A budget below 1 is treated as 1.
func Sort[T constraints.Ordered](a []T, p, r, threads int) {
	SortFunc(a, p, r, threads, cmpLess[T])
}

// SortFunc is Sort ordered by less. It is stable.
func SortFunc[E any](a []E, p, r, threads int, less func(x, y E) bool) {
	NewSorter(less).Sort(context.Background(), a, p, r, threads)
}

// Span describes one recursive call in indices of the caller's slice.
type Span struct {
	Lo, Hi int
	Budget int
	Depth  int
	// Serial is set when the call sorts its range without splitting further.
	Serial bool
}

type Option func(*options)

type options struct {
	joiner concurrent.Joiner
	logger *zap.Logger
	tracer func(Span)
}

// WithJoiner sets how the two halves of a split are run. The default
// forks the left half onto a new goroutine.
func WithJoiner(j concurrent.Joiner) Option {
	return func(o *options) {
		o.joiner = j
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer registers fn to be called on entry to every recursive call.
// fn is called concurrently and must be safe for concurrent use.
func WithTracer(fn func(Span)) Option {
	return func(o *options) {
		o.tracer = fn
	}
}

// Sorter is a configured parallel merge sort. It holds no per-sort state
// and may be used by several goroutines at once.
type Sorter[E any] struct {
	less func(x, y E) bool
	opts options
}

func NewSorter[E any](less func(x, y E) bool, opts ...Option) *Sorter[E] {
	s := &Sorter[E]{less: less}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.joiner == nil {
		s.opts.joiner = concurrent.GoJoiner{}
	}
	return s
}

// Sort sorts a[p:r] in place with the given thread budget. Counter sets
// attached to ctx with perfcounter.WithCounterSet receive the sort's
// statistics. It panics if [p, r) is not a range of a.
func (s *Sorter[E]) Sort(ctx context.Context, a []E, p, r, threads int) {
	checkRange(ctx, len(a), p, r)
	logger := s.opts.logger
	if logger == nil {
		logger = logutil.GetGlobalLogger()
	}
	if threads < 1 {
		logger.Debug("thread budget clamped", zap.Int("threads", threads))
		threads = 1
	}

	rn := &run[E]{
		less:   s.less,
		joiner: s.opts.joiner,
		tracer: s.opts.tracer,
		sets:   counterSets(ctx),
	}
	start := time.Now()
	rn.sort(a[p:r:r], p, threads, 0)
	elapsed := time.Since(start)

	if threads > 1 {
		v2.SortParallelCounter.Inc()
	} else {
		v2.SortSerialCounter.Inc()
	}
	v2.SortElementsCounter.Add(float64(r - p))
	v2.SortDurationHistogram.Observe(elapsed.Seconds())

	logger.Debug("merge sort done",
		zap.Int("size", r-p),
		zap.Int("threads", threads),
		zap.Duration("elapsed", elapsed))
}

// run carries what every recursive call of one Sort needs.
type run[E any] struct {
	less   func(x, y E) bool
	joiner concurrent.Joiner
	tracer func(Span)
	sets   []*perfcounter.CounterSet
}

func (rn *run[E]) sort(a []E, lo, threads, depth int) {
	if threads <= 1 || len(a) < 2 {
		rn.trace(Span{Lo: lo, Hi: lo + len(a), Budget: threads, Depth: depth, Serial: true})
		rn.serial(a)
		return
	}
	rn.trace(Span{Lo: lo, Hi: lo + len(a), Budget: threads, Depth: depth})

	q := len(a) / 2
	lt := threads / 2
	concurrently := rn.joiner.Join(
		func() { rn.sort(a[:q:q], lo, lt, depth+1) },
		func() { rn.sort(a[q:], lo+q, threads-lt, depth+1) },
	)
	if concurrently {
		v2.SortForkConcurrentCounter.Inc()
	} else {
		v2.SortForkInlineCounter.Inc()
	}

	merge(a, q, rn.less)
	for _, set := range rn.sets {
		set.Sort.Forks.Inc()
		if !concurrently {
			set.Sort.InlineForks.Inc()
		}
		set.Sort.Merges.Inc()
		set.Sort.MergedElements.Add(int64(len(a)))
	}
}

func (rn *run[E]) serial(a []E) {
	for _, set := range rn.sets {
		set.Sort.EnterRun()
	}
	st := mergeStats{}
	defer func() {
		for _, set := range rn.sets {
			set.Sort.LeaveRun()
			set.Sort.Merges.Add(st.merges)
			set.Sort.MergedElements.Add(st.elements)
		}
	}()
	serialSort(a, rn.less, &st)
}

func (rn *run[E]) trace(span Span) {
	if rn.tracer != nil {
		rn.tracer(span)
	}
}

func counterSets(ctx context.Context) []*perfcounter.CounterSet {
	var sets []*perfcounter.CounterSet
	perfcounter.Update(ctx, func(set *perfcounter.CounterSet) {
		sets = append(sets, set)
	})
	return sets
}

func checkRange(ctx context.Context, n, p, r int) {
	if p < 0 || p > r || r > n {
		panic(moerr.NewInvalidArg(ctx, "sort range", fmt.Sprintf("[%d, %d) of length %d", p, r, n)))
	}
}
