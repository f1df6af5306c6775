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

import (
	"go.uber.org/atomic"
)

type CounterSet struct {
	Sort SortCounterSet
}

type SortCounterSet struct {
	Forks          atomic.Int64 // parallel splits performed
	InlineForks    atomic.Int64 // splits whose left half ran on the caller
	SerialRuns     atomic.Int64 // subtrees handed to the serial sort
	Merges         atomic.Int64
	MergedElements atomic.Int64
	ActiveRuns     atomic.Int64 // serial subtrees currently running
	PeakRuns       atomic.Int64 // high-water mark of ActiveRuns
}

func (c *CounterSet) Reset() {
	c.Sort.Forks.Store(0)
	c.Sort.InlineForks.Store(0)
	c.Sort.SerialRuns.Store(0)
	c.Sort.Merges.Store(0)
	c.Sort.MergedElements.Store(0)
	c.Sort.ActiveRuns.Store(0)
	c.Sort.PeakRuns.Store(0)
}

// EnterRun marks the start of a serial subtree and maintains PeakRuns.
func (s *SortCounterSet) EnterRun() {
	s.SerialRuns.Inc()
	active := s.ActiveRuns.Inc()
	for {
		peak := s.PeakRuns.Load()
		if active <= peak || s.PeakRuns.CAS(peak, active) {
			return
		}
	}
}

// LeaveRun marks the end of a serial subtree.
func (s *SortCounterSet) LeaveRun() {
	s.ActiveRuns.Dec()
}
