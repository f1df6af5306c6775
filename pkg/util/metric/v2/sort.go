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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	sortCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsort",
			Subsystem: "sort",
			Name:      "total",
			Help:      "Total number of sorts by mode.",
		}, []string{"mode"})
	SortParallelCounter = sortCounter.WithLabelValues("parallel")
	SortSerialCounter   = sortCounter.WithLabelValues("serial")

	sortForkCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsort",
			Subsystem: "sort",
			Name:      "fork_total",
			Help:      "Total number of parallel splits, by whether the left half ran concurrently.",
		}, []string{"type"})
	SortForkConcurrentCounter = sortForkCounter.WithLabelValues("concurrent")
	SortForkInlineCounter     = sortForkCounter.WithLabelValues("inline")

	SortElementsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parsort",
			Subsystem: "sort",
			Name:      "elements_total",
			Help:      "Total number of elements sorted.",
		})

	SortDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "parsort",
			Subsystem: "sort",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of top level sort duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 20),
		})
)

func initSortMetrics() {
	GetPrometheusRegistry().MustRegister(sortCounter)
	GetPrometheusRegistry().MustRegister(sortForkCounter)
	GetPrometheusRegistry().MustRegister(SortElementsCounter)
	GetPrometheusRegistry().MustRegister(SortDurationHistogram)
}
