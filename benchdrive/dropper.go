// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// SettleDelay is how long the droppers returned by this package wait
// after dropping the page cache.
const SettleDelay = time.Second

// A CacheDropper empties the OS page cache before a run.
type CacheDropper interface {
	DropCaches(ctx context.Context) error
}

// CommandDropper drops the page cache by running an external command,
// typically a small privileged helper such as "sudo clear_page_cache".
type CommandDropper struct {
	Args   []string
	Settle time.Duration
}

// NewCommandDropper returns a CommandDropper running args and waiting
// SettleDelay afterwards.
func NewCommandDropper(args ...string) *CommandDropper {
	return &CommandDropper{Args: args, Settle: SettleDelay}
}

func (d *CommandDropper) DropCaches(ctx context.Context) error {
	if len(d.Args) == 0 {
		return fmt.Errorf("empty cache drop command")
	}
	out, err := exec.CommandContext(ctx, d.Args[0], d.Args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", d.Args[0], err, out)
	}
	return settle(ctx, d.Settle)
}

// SysDropper syncs dirty pages and writes to Path, which is normally
// /proc/sys/vm/drop_caches. It requires root.
type SysDropper struct {
	Path   string
	Settle time.Duration
}

// NewSysDropper returns a SysDropper for /proc/sys/vm/drop_caches.
func NewSysDropper() *SysDropper {
	return &SysDropper{Path: "/proc/sys/vm/drop_caches", Settle: SettleDelay}
}

func (d *SysDropper) DropCaches(ctx context.Context) error {
	if err := dropCaches(d.Path); err != nil {
		return fmt.Errorf("drop caches: %w", err)
	}
	return settle(ctx, d.Settle)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
