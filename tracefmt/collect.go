// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tpool-lab/poolbench/benchrun"
)

// ConfigPrefix returns the path prefix under which a traced run with
// the given pool size stores its reports in dir.
func ConfigPrefix(dir string, size int) string {
	return filepath.Join(dir, "t="+strconv.Itoa(size))
}

func parseFile[T any](path string, parse func(io.Reader, string) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return parse(f, path)
}

// CollectDir builds one run per pool size from the reports in dir.
// For size n it reads t=<n>-syscalls.txt, t=<n>-pidstats.txt and
// t=<n>-runtime_ms.txt. The runs use the thread config {pool: n}.
// Traced runs do not measure latency, so AvgLatencyMs is -1.
func CollectDir(dir, workload, pool string, sizes []int) ([]*benchrun.Run, error) {
	runs := make([]*benchrun.Run, 0, len(sizes))
	for _, n := range sizes {
		prefix := ConfigPrefix(dir, n)
		runtimeMs, err := parseFile(prefix+"-runtime_ms.txt", ParseRuntime)
		if err != nil {
			return nil, err
		}
		sms, err := parseFile(prefix+"-syscalls.txt", ParseSyscalls)
		if err != nil {
			return nil, err
		}
		tot, err := parseFile(prefix+"-pidstats.txt", ParsePidstat)
		if err != nil {
			return nil, err
		}
		runs = append(runs, &benchrun.Run{
			Workload:       workload,
			ThreadConfig:   benchrun.ThreadConfig{pool: n},
			RuntimeS:       runtimeMs / 1000,
			AvgLatencyMs:   -1,
			SyscallMetrics: sms,
			IOThroughput: map[string]float64{
				benchrun.ReadBytes:  float64(tot.Read),
				benchrun.WriteBytes: float64(tot.Write),
			},
			IOWait: float64(tot.IOWait),
		})
	}
	return runs, nil
}

// CollectReps collects reps repetitions rooted at base. A single
// repetition lives directly in base; otherwise repetition i lives in
// base/i for i in 1..reps.
func CollectReps(base string, reps int, workload, pool string, sizes []int) ([]*benchrun.Run, error) {
	if reps < 1 {
		return nil, fmt.Errorf("repetition count %d < 1", reps)
	}
	if reps == 1 {
		return CollectDir(base, workload, pool, sizes)
	}
	var all []*benchrun.Run
	for i := 1; i <= reps; i++ {
		runs, err := CollectDir(filepath.Join(base, strconv.Itoa(i)), workload, pool, sizes)
		if err != nil {
			return nil, err
		}
		all = append(all, runs...)
	}
	return all, nil
}
