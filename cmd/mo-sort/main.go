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
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matrixorigin/parsort/pkg/common/moerr"
	"github.com/matrixorigin/parsort/pkg/config"
)

type flags struct {
	configFile  string
	threads     int
	size        int
	serial      bool
	metricsFile string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return newCommand(&flags{})
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mo-sort <seed>",
		Short: "Sort generated integers with a parallel merge sort",
		Long: "Generate pseudo random integers from <seed>, sort them with a " +
			"thread budget bounded parallel merge sort and verify the result",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(ctx, cmd, f, args[0])
			if err != nil {
				return err
			}
			setupLogger(cfg)
			_, err = run(ctx, cfg, f.serial)
			return err
		},
	}
	cmd.Flags().StringVar(&f.configFile, "cfg", "", "toml configuration file, built-in defaults when empty")
	cmd.Flags().IntVar(&f.threads, "threads", 0, "thread budget, overrides sort.threads (0 means number of CPUs)")
	cmd.Flags().IntVar(&f.size, "size", 0, "number of values to sort, overrides data.size")
	cmd.Flags().BoolVar(&f.serial, "serial", false, "sort with a budget of one thread")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write prometheus metrics to this file at exit, overrides metric.file")
	return cmd
}

func loadConfig(ctx context.Context, cmd *cobra.Command, f *flags, seedArg string) (*config.Config, error) {
	seed, err := strconv.ParseUint(seedArg, 10, 64)
	if err != nil {
		return nil, moerr.NewInvalidInput(ctx, "bad seed %q: %v", seedArg, err)
	}

	cfg := &config.Config{}
	if f.configFile != "" {
		if cfg, err = config.ParseConfigFromFile(ctx, f.configFile); err != nil {
			return nil, err
		}
	}

	cfg.Data.Seed = seed
	if cmd.Flags().Changed("threads") {
		cfg.Sort.Threads = f.threads
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.Metric.File = f.metricsFile
	}
	cfg.SetDefaults()
	// an explicit --size 0 sorts nothing instead of falling back to the default
	if cmd.Flags().Changed("size") {
		cfg.Data.Size = f.size
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
