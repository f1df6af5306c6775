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

package sortcheck

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/parsort/pkg/common/concurrent"
	"github.com/matrixorigin/parsort/pkg/common/moerr"
)

// IsSorted returns the smallest i with a[i] < a[i-1], or -1 when a is in
// non-decreasing order. Chunks are checked in parallel on exec.
func IsSorted[T constraints.Ordered](ctx context.Context, exec concurrent.ThreadPoolExecutor, a []T) (int, error) {
	var (
		mu    sync.Mutex
		first = -1
	)
	err := exec.Execute(ctx, len(a), func(ctx context.Context, _ int, start, end int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if start == 0 {
			start = 1
		}
		for i := start; i < end; i++ {
			if a[i] < a[i-1] {
				mu.Lock()
				if first == -1 || i < first {
					first = i
				}
				mu.Unlock()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return -1, err
	}
	return first, nil
}

// Fingerprint is an order independent digest of a multiset of integers.
// Two slices holding the same values with the same multiplicities have
// equal fingerprints whatever their order.
type Fingerprint struct {
	Count int
	Sum   uint64
	Xor   uint64
}

// FingerprintOf digests a in parallel on exec.
func FingerprintOf[T constraints.Integer](ctx context.Context, exec concurrent.ThreadPoolExecutor, a []T) (Fingerprint, error) {
	var (
		mu  sync.Mutex
		out = Fingerprint{Count: len(a)}
	)
	err := exec.Execute(ctx, len(a), func(ctx context.Context, _ int, start, end int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			buf      [8]byte
			sum, xor uint64
		)
		for _, v := range a[start:end] {
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			h := xxhash.Sum64(buf[:])
			sum += h
			xor ^= h
		}
		mu.Lock()
		out.Sum += sum
		out.Xor ^= xor
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Fingerprint{}, err
	}
	return out, nil
}

// Verify checks that a is sorted and is a permutation of the input that
// produced want.
func Verify[T constraints.Integer](ctx context.Context, exec concurrent.ThreadPoolExecutor, want Fingerprint, a []T) error {
	idx, err := IsSorted(ctx, exec, a)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return moerr.NewInvalidState(ctx, "output not sorted at index %d: %v > %v", idx, a[idx-1], a[idx])
	}
	got, err := FingerprintOf(ctx, exec, a)
	if err != nil {
		return err
	}
	if got != want {
		return moerr.NewInvalidState(ctx, "output is not a permutation of the input: %+v != %+v", got, want)
	}
	return nil
}
