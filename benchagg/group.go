// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import "github.com/tpool-lab/poolbench/benchrun"

// A Group is the set of runs that share one configuration.
type Group struct {
	// Key is the ParamsString shared by all runs in the group.
	Key  string
	Runs []*benchrun.Run
}

// GroupByConfig splits runs by configuration. Groups appear in the
// order in which their key first appears in runs, and runs within a
// group keep their input order.
func GroupByConfig(runs []*benchrun.Run) []*Group {
	var groups []*Group
	index := make(map[string]*Group)
	for _, r := range runs {
		key := r.ParamsString()
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Runs = append(g.Runs, r)
	}
	return groups
}

// GroupMap is like GroupByConfig but returns the groups keyed by
// configuration.
func GroupMap(runs []*benchrun.Run) map[string][]*benchrun.Run {
	m := make(map[string][]*benchrun.Run)
	for _, g := range GroupByConfig(runs) {
		m[g.Key] = g.Runs
	}
	return m
}
