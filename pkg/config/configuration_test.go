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
	"os"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/parsort/pkg/common/moerr"
)

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "mo-sort.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestNewConfigDefaults(t *testing.T) {
	stubs := gostub.Stub(&numCPU, func() int { return 6 })
	defer stubs.Reset()

	cfg := NewConfig()
	require.Equal(t, 6, cfg.Sort.Threads)
	require.Equal(t, 6, cfg.Sort.PoolSize)
	require.False(t, cfg.Sort.UsePool)
	require.Equal(t, DefaultDataSize, cfg.Data.Size)
	require.Equal(t, int32(DefaultDataMax), cfg.Data.Max)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.NoError(t, cfg.Validate(context.Background()))
}

func TestLoadConfigFromFile(t *testing.T) {
	file := writeConfig(t, `
[sort]
threads = 20
use-pool = true

[data]
size = 1000
max = 100
seed = 42

[log]
level = "debug"
format = "json"

[metric]
file = "/tmp/metrics.prom"
`)
	cfg, err := LoadConfigFromFile(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Sort.Threads)
	require.True(t, cfg.Sort.UsePool)
	require.Equal(t, 20, cfg.Sort.PoolSize)
	require.Equal(t, 1000, cfg.Data.Size)
	require.Equal(t, int32(100), cfg.Data.Max)
	require.Equal(t, uint64(42), cfg.Data.Seed)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 512, cfg.Log.MaxSize)
	require.Equal(t, "/tmp/metrics.prom", cfg.Metric.File)
}

func TestLoadConfigFromFile_errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "[sort\nthreads = 1"},
		{name: "negative threads", content: "[sort]\nthreads = -2"},
		{name: "negative size", content: "[data]\nsize = -1"},
		{name: "negative max", content: "[data]\nmax = -5"},
		{name: "format", content: "[log]\nformat = \"xml\""},
		{name: "level", content: "[log]\nlevel = \"verbose\""},
		{name: "stacktrace level", content: "[log]\nstacktrace-level = \"loud\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromFile(ctx, writeConfig(t, tt.content))
			require.Error(t, err)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), err.Error())
		})
	}

	_, err := LoadConfigFromFile(ctx, filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestParseConfigFromFile(t *testing.T) {
	stubs := gostub.Stub(&numCPU, func() int { return 6 })
	defer stubs.Reset()

	ctx := context.Background()
	cfg, err := ParseConfigFromFile(ctx, writeConfig(t, "[sort]\nthreads = 20\n"))
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Sort.Threads)
	require.Equal(t, 0, cfg.Sort.PoolSize)
	require.Equal(t, 0, cfg.Data.Size)

	// pool-size follows threads changed before defaults are applied
	cfg.Sort.Threads = 4
	cfg.SetDefaults()
	require.Equal(t, 4, cfg.Sort.PoolSize)
	require.Equal(t, DefaultDataSize, cfg.Data.Size)
	require.NoError(t, cfg.Validate(ctx))

	_, err = ParseConfigFromFile(ctx, writeConfig(t, "[sort\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}
