// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// A Benchmark is one entry of a benchmarks.json file.
type Benchmark struct {
	WorkloadName   string `json:"workload_name"`
	WorkerFunction string `json:"worker_function"`
	AmountFiles    int    `json:"amount_files"`
	WorkerThreads  []int  `json:"worker_threads"`
	FilesDir       string `json:"files_dir"`
}

// Benchmarks maps benchmark names to their definitions.
type Benchmarks map[string]*Benchmark

// LoadBenchmarks reads a benchmarks.json file.
func LoadBenchmarks(path string) (Benchmarks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bs Benchmarks
	if err := json.Unmarshal(data, &bs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, b := range bs {
		if b == nil {
			return nil, fmt.Errorf("%s: benchmark %q is null", path, name)
		}
		if b.WorkerFunction == "" || b.WorkloadName == "" {
			return nil, fmt.Errorf("%s: benchmark %q needs worker_function and workload_name", path, name)
		}
		for _, n := range b.WorkerThreads {
			if n < 0 {
				return nil, fmt.Errorf("%s: benchmark %q: negative pool size %d", path, name, n)
			}
		}
	}
	return bs, nil
}

// Get returns the benchmark called name.
func (bs Benchmarks) Get(name string) (*Benchmark, error) {
	b, ok := bs[name]
	if !ok {
		return nil, fmt.Errorf("unknown benchmark %q", name)
	}
	return b, nil
}

// Names returns the benchmark names in sorted order.
func (bs Benchmarks) Names() []string {
	names := make([]string, 0, len(bs))
	for name := range bs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// A Combination is one cell of a run matrix.
type Combination struct {
	Benchmark string
	// Variant is the worker function passed to the binary.
	Variant string
	// Size is the pool size. 0 selects the adaptive pool.
	Size int
}

// Key returns "<benchmark>/<variant>/<size>", the key of c in a
// result file.
func (c Combination) Key() string {
	return c.Benchmark + "/" + c.Variant + "/" + strconv.Itoa(c.Size)
}

// A Matrix selects the combinations a Driver runs.
type Matrix struct {
	Benchmarks Benchmarks

	// Names lists the benchmarks to run, in order. If empty, every
	// benchmark runs in sorted name order.
	Names []string

	// Variants overrides each benchmark's worker function.
	Variants []string

	// Sizes overrides each benchmark's worker_threads.
	Sizes []int
}

// Combinations expands m in run order: benchmarks, then variants, then
// sizes.
func (m *Matrix) Combinations() ([]Combination, error) {
	names := m.Names
	if len(names) == 0 {
		names = m.Benchmarks.Names()
	}
	var cs []Combination
	for _, name := range names {
		b, err := m.Benchmarks.Get(name)
		if err != nil {
			return nil, err
		}
		variants := m.Variants
		if len(variants) == 0 {
			variants = []string{b.WorkerFunction}
		}
		sizes := m.Sizes
		if len(sizes) == 0 {
			sizes = b.WorkerThreads
		}
		for _, v := range variants {
			for _, n := range sizes {
				if n < 0 {
					return nil, fmt.Errorf("negative pool size %d", n)
				}
				cs = append(cs, Combination{Benchmark: name, Variant: v, Size: n})
			}
		}
	}
	return cs, nil
}
