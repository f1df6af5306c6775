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

package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matrixorigin/parsort/pkg/common/concurrent"
	"github.com/matrixorigin/parsort/pkg/common/moerr"
	"github.com/matrixorigin/parsort/pkg/config"
	"github.com/matrixorigin/parsort/pkg/datagen"
	"github.com/matrixorigin/parsort/pkg/logutil"
	"github.com/matrixorigin/parsort/pkg/perfcounter"
	"github.com/matrixorigin/parsort/pkg/sort/mergesort"
	"github.com/matrixorigin/parsort/pkg/sort/sortcheck"
	v2 "github.com/matrixorigin/parsort/pkg/util/metric/v2"
)

type report struct {
	runID    uuid.UUID
	size     int
	threads  int
	elapsed  time.Duration
	counters *perfcounter.CounterSet
}

func run(ctx context.Context, cfg *config.Config, serial bool) (*report, error) {
	rep := &report{
		runID:    uuid.New(),
		size:     cfg.Data.Size,
		threads:  cfg.Sort.Threads,
		counters: &perfcounter.CounterSet{},
	}
	if serial {
		rep.threads = 1
	}
	ctx = logutil.ContextWithFields(ctx, zap.String("run-id", rep.runID.String()))
	ctx = perfcounter.WithCounterSet(ctx, rep.counters)

	data, err := datagen.Generate(ctx, cfg.Data.Seed, cfg.Data.Size, cfg.Data.Max)
	if err != nil {
		return nil, err
	}
	exec := concurrent.NewThreadPoolExecutor(cfg.Sort.Threads)
	want, err := sortcheck.FingerprintOf(ctx, exec, data)
	if err != nil {
		return nil, err
	}

	opts := []mergesort.Option{mergesort.WithLogger(logutil.GetGlobalLogger())}
	if cfg.Sort.UsePool && rep.threads == 1 {
		logutil.Warn(ctx, "worker pool ignored for a serial sort", zap.Int("pool-size", cfg.Sort.PoolSize))
	}
	if cfg.Sort.UsePool && rep.threads > 1 {
		joiner, err := concurrent.NewPoolJoiner(cfg.Sort.PoolSize)
		if err != nil {
			return nil, moerr.ConvertGoError(ctx, err)
		}
		defer joiner.Release()
		opts = append(opts, mergesort.WithJoiner(joiner))
	}
	sorter := mergesort.NewSorter(func(x, y int32) bool { return x < y }, opts...)

	logutil.Debug(ctx, "sort started",
		zap.Uint64("seed", cfg.Data.Seed),
		zap.Int("size", rep.size),
		zap.Int("threads", rep.threads),
		zap.Bool("pool", cfg.Sort.UsePool))

	start := time.Now()
	if err := runSafely(ctx, func() {
		sorter.Sort(ctx, data, 0, len(data), rep.threads)
	}); err != nil {
		return nil, err
	}
	rep.elapsed = time.Since(start)

	if err := sortcheck.Verify(ctx, exec, want, data); err != nil {
		logutil.Error(ctx, "sort verification failed", zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{
		zap.Int("size", rep.size),
		zap.Int("threads", rep.threads),
		zap.Duration("elapsed", rep.elapsed),
		zap.Bool("verified", true),
	}
	fields = append(fields, perfcounter.NewCounterLogExporter(rep.counters).Export()...)
	logutil.Info(ctx, "sort finished", fields...)

	if cfg.Metric.File != "" {
		if err := v2.WriteTextFile(cfg.Metric.File); err != nil {
			return nil, moerr.ConvertGoError(ctx, err)
		}
	}
	return rep, nil
}

func runSafely(ctx context.Context, fn func()) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(ctx, e)
		}
	}()
	fn()
	return nil
}
