// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"encoding/json"
	"os"
)

// A Result is the outcome of one combination.
type Result struct {
	RuntimeSeconds float64 `json:"runtime_seconds"`

	// ScaleLines holds the output lines containing the scaling
	// marker. It is only collected for adaptive runs.
	ScaleLines []string `json:"scale_lines,omitempty"`

	// ExitCode is the exit status of the benchmark process.
	ExitCode int `json:"exit_code"`

	// IO is the last I/O sample of the process, if sampling was on.
	IO *IOSample `json:"io,omitempty"`
}

// Results maps Combination keys to results.
type Results map[string]*Result

// WriteFile writes rs to path as one indented JSON object.
func (rs Results) WriteFile(path string) error {
	data, err := json.MarshalIndent(rs, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0666)
}

// ReadResults reads a file written by Results.WriteFile.
func ReadResults(path string) (Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rs Results
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}
