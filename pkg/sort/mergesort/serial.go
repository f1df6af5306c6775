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

	"golang.org/x/exp/constraints"
)

// SerialSort sorts a[p:r] on the calling goroutine.
func SerialSort[T constraints.Ordered](a []T, p, r int) {
	SerialSortFunc(a, p, r, cmpLess[T])
}

// SerialSortFunc is SerialSort ordered by less. It is stable.
func SerialSortFunc[E any](a []E, p, r int, less func(x, y E) bool) {
	checkRange(context.Background(), len(a), p, r)
	serialSort(a[p:r:r], less, &mergeStats{})
}

func serialSort[E any](a []E, less func(x, y E) bool, st *mergeStats) {
	if len(a) < 2 {
		return
	}
	q := len(a) / 2
	serialSort(a[:q:q], less, st)
	serialSort(a[q:], less, st)
	merge(a, q, less)
	st.merges++
	st.elements += int64(len(a))
}
