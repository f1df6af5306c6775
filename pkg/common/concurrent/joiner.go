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

package concurrent

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Joiner runs two tasks, possibly concurrently, and returns only after
// both have finished. A panic raised by either task is re-raised on the
// caller once both are done.
type Joiner interface {
	// Join reports whether left ran concurrently with right.
	Join(left, right func()) bool
}

// GoJoiner forks left onto a new goroutine and runs right on the caller.
type GoJoiner struct{}

var _ Joiner = GoJoiner{}

func (GoJoiner) Join(left, right func()) bool {
	var (
		wg     sync.WaitGroup
		lpanic interface{}
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		lpanic = runRecover(left)
	}()
	rpanic := runRecover(right)
	wg.Wait()
	rethrow(lpanic, rpanic)
	return true
}

// PoolJoiner forks left onto a non-blocking ants pool. When the pool has
// no idle worker, or has been released, left runs on the caller before
// right, so nested joins never wait on a saturated pool.
type PoolJoiner struct {
	pool *ants.Pool
}

var _ Joiner = (*PoolJoiner)(nil)

func NewPoolJoiner(size int) (*PoolJoiner, error) {
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &PoolJoiner{pool: pool}, nil
}

func (j *PoolJoiner) Join(left, right func()) bool {
	done := make(chan interface{}, 1)
	err := j.pool.Submit(func() {
		done <- runRecover(left)
	})
	if err != nil {
		lpanic := runRecover(left)
		rpanic := runRecover(right)
		rethrow(lpanic, rpanic)
		return false
	}
	rpanic := runRecover(right)
	lpanic := <-done
	rethrow(lpanic, rpanic)
	return true
}

// Running returns the number of busy workers.
func (j *PoolJoiner) Running() int {
	return j.pool.Running()
}

func (j *PoolJoiner) Release() {
	j.pool.Release()
}

func runRecover(fn func()) (p interface{}) {
	defer func() {
		p = recover()
	}()
	fn()
	return nil
}

func rethrow(ps ...interface{}) {
	for _, p := range ps {
		if p != nil {
			panic(p)
		}
	}
}
