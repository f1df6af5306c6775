// Copyright 2021 Matrix Origin
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

package config

import (
	"context"
	"runtime"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/parsort/pkg/common/moerr"
	"github.com/matrixorigin/parsort/pkg/logutil"
)

const (
	// DefaultDataSize is the number of values generated when none is configured.
	DefaultDataSize = 2050000
	// DefaultDataMax bounds generated values to [0, DefaultDataMax).
	DefaultDataMax = 0x3fffffff
)

var numCPU = runtime.NumCPU

// SortParameters controls how the parallel merge sort distributes work.
type SortParameters struct {
	// Threads is the top level thread budget. 0 means runtime.NumCPU().
	Threads int `toml:"threads"`

	// UsePool forks onto an ants worker pool instead of bare goroutines.
	UsePool bool `toml:"use-pool"`

	// PoolSize is the capacity of the worker pool. 0 means Threads.
	PoolSize int `toml:"pool-size"`
}

// DataParameters controls input generation.
type DataParameters struct {
	// Size is the number of generated values. default: 2050000
	Size int `toml:"size"`

	// Max is the exclusive upper bound of generated values. default: 0x3fffffff
	Max int32 `toml:"max"`

	Seed uint64 `toml:"seed"`
}

// MetricParameters controls metric export.
type MetricParameters struct {
	// File receives the prometheus text exposition at exit. Empty disables it.
	File string `toml:"file"`
}

// Config is the configuration of a sort run.
type Config struct {
	Sort   SortParameters    `toml:"sort"`
	Data   DataParameters    `toml:"data"`
	Log    logutil.LogConfig `toml:"log"`
	Metric MetricParameters  `toml:"metric"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// ParseConfigFromFile decodes a toml file without applying defaults, so
// callers can override fields before SetDefaults derives the rest.
func ParseConfigFromFile(ctx context.Context, file string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", file, err)
	}
	return cfg, nil
}

// LoadConfigFromFile decodes a toml file, then applies defaults and validates.
func LoadConfigFromFile(ctx context.Context, file string) (*Config, error) {
	cfg, err := ParseConfigFromFile(ctx, file)
	if err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Sort.Threads == 0 {
		c.Sort.Threads = numCPU()
	}
	if c.Sort.PoolSize == 0 {
		c.Sort.PoolSize = c.Sort.Threads
	}
	if c.Data.Size == 0 {
		c.Data.Size = DefaultDataSize
	}
	if c.Data.Max == 0 {
		c.Data.Max = DefaultDataMax
	}
	if c.Log.Level == "" {
		c.Log.Level = zapcore.InfoLevel.String()
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 512
	}
}

// Validate checks values SetDefaults cannot repair.
func (c *Config) Validate(ctx context.Context) error {
	if c.Sort.Threads < 1 {
		return moerr.NewBadConfig(ctx, "sort.threads must be positive, got %d", c.Sort.Threads)
	}
	if c.Sort.PoolSize < 1 {
		return moerr.NewBadConfig(ctx, "sort.pool-size must be positive, got %d", c.Sort.PoolSize)
	}
	if c.Data.Size < 0 {
		return moerr.NewBadConfig(ctx, "data.size must not be negative, got %d", c.Data.Size)
	}
	if c.Data.Max < 1 {
		return moerr.NewBadConfig(ctx, "data.max must be positive, got %d", c.Data.Max)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfig(ctx, "log.format %s", c.Log.Format)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return moerr.NewBadConfig(ctx, "log.level %s", c.Log.Level)
	}
	if c.Log.StacktraceLevel != "" {
		if err := level.UnmarshalText([]byte(c.Log.StacktraceLevel)); err != nil {
			return moerr.NewBadConfig(ctx, "log.stacktrace-level %s", c.Log.StacktraceLevel)
		}
	}
	return nil
}
