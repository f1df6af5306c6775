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

package datagen

import (
	"context"

	"golang.org/x/exp/rand"

	"github.com/matrixorigin/parsort/pkg/common/moerr"
)

// Generate returns size pseudo random values in [0, max) drawn from a
// source seeded with seed. The same arguments always give the same data.
func Generate(ctx context.Context, seed uint64, size int, max int32) ([]int32, error) {
	if size < 0 {
		return nil, moerr.NewInvalidArg(ctx, "size", size)
	}
	if max < 1 {
		return nil, moerr.NewInvalidArg(ctx, "max", max)
	}
	r := rand.New(rand.NewSource(seed))
	data := make([]int32, size)
	for i := range data {
		data[i] = r.Int31() % max
	}
	return data, nil
}
