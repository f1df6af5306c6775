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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type tagged struct {
	key int
	tag string
}

func lessTagged(x, y tagged) bool {
	return x.key < y.key
}

func TestMerge(t *testing.T) {
	a := []int64{1, 3, 5, 2, 4, 6}
	Merge(a, 0, 3, 6)
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, a)
}

func TestMergeStable(t *testing.T) {
	a := []tagged{
		{1, "L0"}, {3, "L1"}, {5, "L2"},
		{1, "R0"}, {2, "R1"}, {4, "R2"},
	}
	MergeFunc(a, 0, 3, 6, lessTagged)
	require.Equal(t, []tagged{
		{1, "L0"}, {1, "R0"}, {2, "R1"}, {3, "L1"}, {4, "R2"}, {5, "L2"},
	}, a)
}

func TestMergeAllTies(t *testing.T) {
	a := []tagged{{7, "L0"}, {7, "L1"}, {7, "R0"}, {7, "R1"}, {7, "R2"}}
	MergeFunc(a, 0, 2, 5, lessTagged)
	require.Equal(t, []string{"L0", "L1", "R0", "R1", "R2"}, tags(a))
}

func TestMergeEmptyHalves(t *testing.T) {
	a := []int{4, 5, 6}
	Merge(a, 0, 0, 3)
	require.Equal(t, []int{4, 5, 6}, a)
	Merge(a, 0, 3, 3)
	require.Equal(t, []int{4, 5, 6}, a)
	Merge(a, 1, 1, 1)
	require.Equal(t, []int{4, 5, 6}, a)
}

func TestMergeSubrange(t *testing.T) {
	a := []int{9, 9, 2, 8, 1, 3, 0, 0}
	Merge(a, 2, 4, 6)
	require.Equal(t, []int{9, 9, 1, 2, 3, 8, 0, 0}, a)
}

func TestMergeExtremeValues(t *testing.T) {
	// the largest value must not be confused with an end marker
	a := []int32{math.MinInt32, 0, math.MaxInt32, -1, math.MaxInt32}
	Merge(a, 0, 3, 5)
	require.Equal(t, []int32{math.MinInt32, -1, 0, math.MaxInt32, math.MaxInt32}, a)

	b := []uint64{math.MaxUint64, 0}
	Merge(b, 0, 1, 2)
	require.Equal(t, []uint64{0, math.MaxUint64}, b)
}

func TestMergeStrings(t *testing.T) {
	a := []string{"b", "d", "a", "c", "e"}
	Merge(a, 0, 2, 5)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, a)
}

func TestMergeBadMidpoint(t *testing.T) {
	a := []int{1, 2, 3}
	require.Panics(t, func() { Merge(a, 1, 0, 3) })
	require.Panics(t, func() { Merge(a, 0, 4, 3) })
}

func tags(a []tagged) []string {
	out := make([]string, len(a))
	for i, v := range a {
		out[i] = v.tag
	}
	return out
}
