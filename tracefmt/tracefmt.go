// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracefmt parses the text reports written by the tracing tools
// that accompany a traced benchmark run.
//
// Two formats are understood. A syscall report, produced by a
// systemtap script, has two header lines, one line per system call of
// the form
//
//	<name> <total_time_ms> <nr_calls>
//
// and a final footer line. A pidstat report has three header lines
// followed by one line per worker process of the form
//
//	<read_bytes> <write_bytes> <iowait_ticks>
//
// Fields are separated by white space. A line with the wrong number of
// fields is a *SyntaxError naming the file and line.
package tracefmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tpool-lab/poolbench/benchrun"
)

// Header and footer line counts of the supported reports.
const (
	syscallHeader = 2
	syscallFooter = 1
	pidstatHeader = 3
)

// A SyntaxError reports a malformed line in a trace report.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// readLines returns all lines of r. Trailing blank lines are dropped
// so a final newline in the file does not count as a footer.
func readLines(r io.Reader, fileName string) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func fields(fileName string, lineNo int, line string, n int) ([]string, error) {
	f := strings.Fields(line)
	if len(f) != n {
		return nil, &SyntaxError{fileName, lineNo, fmt.Sprintf("expected %d fields, found %d", n, len(f))}
	}
	return f, nil
}

// ParseSyscalls parses a syscall report. It returns the syscalls in
// report order. A syscall listed twice is an error.
func ParseSyscalls(r io.Reader, fileName string) ([]benchrun.SyscallMetrics, error) {
	lines, err := readLines(r, fileName)
	if err != nil {
		return nil, err
	}
	if len(lines) < syscallHeader+syscallFooter {
		return nil, &SyntaxError{fileName, len(lines), "truncated syscall report"}
	}
	body := lines[syscallHeader : len(lines)-syscallFooter]
	sms := make([]benchrun.SyscallMetrics, 0, len(body))
	seen := make(map[string]bool)
	for i, line := range body {
		lineNo := syscallHeader + i + 1
		f, err := fields(fileName, lineNo, line, 3)
		if err != nil {
			return nil, err
		}
		total, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return nil, &SyntaxError{fileName, lineNo, fmt.Sprintf("bad total time %q", f[1])}
		}
		calls, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return nil, &SyntaxError{fileName, lineNo, fmt.Sprintf("bad call count %q", f[2])}
		}
		if seen[f[0]] {
			return nil, &SyntaxError{fileName, lineNo, fmt.Sprintf("duplicate syscall %q", f[0])}
		}
		seen[f[0]] = true
		sms = append(sms, benchrun.NewSyscallMetrics(f[0], total, calls))
	}
	return sms, nil
}

// IOTotals holds the per-process I/O accounting summed over all
// workers.
type IOTotals struct {
	Read, Write, IOWait int64
}

// ParsePidstat parses a pidstat report and sums its worker lines.
func ParsePidstat(r io.Reader, fileName string) (IOTotals, error) {
	var tot IOTotals
	lines, err := readLines(r, fileName)
	if err != nil {
		return tot, err
	}
	if len(lines) < pidstatHeader {
		return tot, &SyntaxError{fileName, len(lines), "truncated pidstat report"}
	}
	for i, line := range lines[pidstatHeader:] {
		lineNo := pidstatHeader + i + 1
		f, err := fields(fileName, lineNo, line, 3)
		if err != nil {
			return tot, err
		}
		var v [3]int64
		for j := range v {
			v[j], err = strconv.ParseInt(f[j], 10, 64)
			if err != nil {
				return tot, &SyntaxError{fileName, lineNo, fmt.Sprintf("bad field %d %q", j, f[j])}
			}
		}
		tot.Read += v[0]
		tot.Write += v[1]
		tot.IOWait += v[2]
	}
	return tot, nil
}

// ParseRuntime parses a runtime report, whose last line is the
// benchmark runtime in milliseconds.
func ParseRuntime(r io.Reader, fileName string) (float64, error) {
	lines, err := readLines(r, fileName)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, &SyntaxError{fileName, 0, "empty runtime report"}
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	ms, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, &SyntaxError{fileName, len(lines), fmt.Sprintf("bad runtime %q", last)}
	}
	return ms, nil
}
