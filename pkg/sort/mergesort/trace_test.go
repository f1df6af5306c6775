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

package mergesort

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/parsort/pkg/perfcounter"
)

type spanRecorder struct {
	sync.Mutex
	spans []Span
}

func (r *spanRecorder) record(s Span) {
	r.Lock()
	defer r.Unlock()
	r.spans = append(r.spans, s)
}

// children returns the spans one level below parent that lie inside it.
func (r *spanRecorder) children(parent Span) []Span {
	var out []Span
	for _, s := range r.spans {
		if s.Depth == parent.Depth+1 && s.Lo >= parent.Lo && s.Hi <= parent.Hi {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })
	return out
}

func TestSpansTileTheirParent(t *testing.T) {
	for _, threads := range []int{2, 3, 5, 8, 13} {
		for _, n := range []int{1, 2, 7, 100} {
			rec := &spanRecorder{}
			a := makeRandomInts(int64(n), n, 50)
			p, r := 0, n
			if n > 2 {
				p, r = 1, n-1
			}
			NewSorter(cmpLess[int], WithTracer(rec.record)).
				Sort(context.Background(), a, p, r, threads)

			var root *Span
			leafBudget := 0
			for i, s := range rec.spans {
				require.GreaterOrEqual(t, s.Budget, 1)
				if s.Depth == 0 {
					root = &rec.spans[i]
				}
				if s.Serial {
					leafBudget += s.Budget
				}
			}
			require.NotNil(t, root)
			require.Equal(t, Span{Lo: p, Hi: r, Budget: threads, Serial: r-p < 2}, *root)
			require.Equal(t, threads, leafBudget)

			for _, s := range rec.spans {
				if s.Serial {
					continue
				}
				kids := rec.children(s)
				require.Len(t, kids, 2)
				left, right := kids[0], kids[1]
				q := (s.Lo + s.Hi) / 2
				require.Equal(t, s.Lo, left.Lo)
				require.Equal(t, q, left.Hi)
				require.Equal(t, q, right.Lo)
				require.Equal(t, s.Hi, right.Hi)
				require.Equal(t, s.Budget/2, left.Budget)
				require.Equal(t, s.Budget-s.Budget/2, right.Budget)
			}
		}
	}
}

func TestSortCounters(t *testing.T) {
	const n = 1024
	for _, threads := range []int{1, 2, 4, 6, 16} {
		set := new(perfcounter.CounterSet)
		ctx := perfcounter.WithCounterSet(context.Background(), set)
		a := makeRandomInts(1, n, 1<<16)
		NewSorter(cmpLess[int]).Sort(ctx, a, 0, n, threads)
		require.True(t, sort.IntsAreSorted(a))

		s := &set.Sort
		require.Equal(t, int64(threads-1), s.Forks.Load(), "threads %d", threads)
		require.Equal(t, int64(0), s.InlineForks.Load())
		require.Equal(t, int64(threads), s.SerialRuns.Load())
		require.LessOrEqual(t, s.PeakRuns.Load(), int64(threads))
		require.GreaterOrEqual(t, s.PeakRuns.Load(), int64(1))
		require.Equal(t, int64(0), s.ActiveRuns.Load())
		// every node of length >= 2 merges once, n log n elements for n = 2^10
		require.Equal(t, int64(n-1), s.Merges.Load())
		require.Equal(t, int64(n*10), s.MergedElements.Load())
	}
}

func TestSortPeakBoundedByBudget(t *testing.T) {
	set := new(perfcounter.CounterSet)
	ctx := perfcounter.WithCounterSet(context.Background(), set)
	sorter := NewSorter(cmpLess[int])
	for _, threads := range []int{2, 3, 8} {
		set.Reset()
		a := makeRandomInts(9, 50000, 1<<30)
		sorter.Sort(ctx, a, 0, len(a), threads)
		require.LessOrEqual(t, set.Sort.PeakRuns.Load(), int64(threads))
	}
}
