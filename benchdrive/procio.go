// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"github.com/prometheus/procfs"
)

// An IOSample is the I/O accounting of a process at one instant.
type IOSample struct {
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
	// BlkIODelay is the aggregated block I/O delay in clock ticks.
	BlkIODelay uint64 `json:"blkio_delay_ticks"`
}

// sampleIO reads /proc/<pid>/io and /proc/<pid>/stat from fs.
func sampleIO(fs procfs.FS, pid int) (IOSample, error) {
	p, err := fs.Proc(pid)
	if err != nil {
		return IOSample{}, err
	}
	pio, err := p.IO()
	if err != nil {
		return IOSample{}, err
	}
	st, err := p.Stat()
	if err != nil {
		return IOSample{}, err
	}
	return IOSample{
		ReadBytes:  pio.ReadBytes,
		WriteBytes: pio.WriteBytes,
		BlkIODelay: st.DelayAcctBlkIOTicks,
	}, nil
}
