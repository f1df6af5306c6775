// Copyright 2023 Matrix Origin
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

package perfcounter

import "context"

type CounterSets = map[*CounterSet]struct{}

type ctxKeyCounters struct{}

var CtxKeyCounters = ctxKeyCounters{}

func WithCounterSet(ctx context.Context, sets ...*CounterSet) context.Context {
	// check existed
	v := ctx.Value(CtxKeyCounters)
	if v == nil {
		v := make(CounterSets)
		for _, s := range sets {
			if s == nil {
				panic("nil counter set")
			}
			v[s] = struct{}{}
		}
		return context.WithValue(ctx, CtxKeyCounters, v)
	}

	counters := v.(CounterSets)

	allExist := true
	for _, s := range sets {
		if _, ok := counters[s]; !ok {
			allExist = false
			break
		}
	}

	// if all exist already, try not to nest context too depth
	if allExist {
		return ctx
	}

	newCounters := make(CounterSets, len(counters)+1)
	for counter := range counters {
		newCounters[counter] = struct{}{}
	}

	for _, s := range sets {
		if s == nil {
			panic("nil counter set")
		}
		newCounters[s] = struct{}{}
	}
	return context.WithValue(ctx, CtxKeyCounters, newCounters)
}

func WithCounterSetFrom(ctx context.Context, fromCtx context.Context) context.Context {
	if v := fromCtx.Value(CtxKeyCounters); v != nil {
		var sets []*CounterSet
		for set := range v.(CounterSets) {
			sets = append(sets, set)
		}
		return WithCounterSet(ctx, sets...)
	}
	return ctx
}

// Update applies fn to every counter set attached to ctx and to extra.
func Update(ctx context.Context, fn func(*CounterSet), extra ...*CounterSet) {
	if v := ctx.Value(CtxKeyCounters); v != nil {
		for set := range v.(CounterSets) {
			fn(set)
		}
	}
	for _, set := range extra {
		if set != nil {
			fn(set)
		}
	}
}

// Attached reports whether ctx carries any counter set.
func Attached(ctx context.Context) bool {
	return ctx.Value(CtxKeyCounters) != nil
}
