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
	"golang.org/x/exp/constraints"
)

// Merge merges the sorted ranges a[p:q] and a[q:r] into a sorted a[p:r].
// Equal elements keep their relative order. p <= q <= r is required;
// unsorted input ranges give an unspecified permutation.
func Merge[T constraints.Ordered](a []T, p, q, r int) {
	MergeFunc(a, p, q, r, cmpLess[T])
}

// MergeFunc is Merge ordered by less.
func MergeFunc[E any](a []E, p, q, r int, less func(x, y E) bool) {
	merge(a[p:r:r], q-p, less)
}

type mergeStats struct {
	merges   int64
	elements int64
}

// merge merges a[:mid] and a[mid:] through two scratch buffers that do
// not outlive the call. A run is exhausted when its cursor reaches the
// end of its buffer; no sentinel element is stored.
func merge[E any](a []E, mid int, less func(x, y E) bool) {
	left := make([]E, mid)
	right := make([]E, len(a)-mid)
	copy(left, a[:mid])
	copy(right, a[mid:])

	i, j := 0, 0
	for k := range a {
		// ties take the left element
		if j == len(right) || (i < len(left) && !less(right[j], left[i])) {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
		}
	}
}

func cmpLess[T constraints.Ordered](x, y T) bool {
	return x < y
}
