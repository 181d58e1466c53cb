// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"context"
	"fmt"
	"strings"
)

// An Opener constructs an FS. For object stores, loc is the bucket
// name and prefix the key prefix; for the "file" scheme, loc is a
// directory and prefix is empty.
type Opener func(ctx context.Context, loc, prefix string) (FS, error)

var openers = make(map[string]Opener)

// RegisterScheme registers the Opener used by Open for destinations
// of the form scheme://bucket/prefix. It must be called from an init
// function. Backend packages register themselves; import them for
// their side effect.
func RegisterScheme(scheme string, open Opener) {
	openers[scheme] = open
}

// Open returns the FS for dest. A destination without a scheme, or
// with the "file" scheme, is a local directory.
func Open(ctx context.Context, dest string) (FS, error) {
	scheme, rest, ok := strings.Cut(dest, "://")
	if !ok {
		scheme, rest = "file", dest
	}
	open := openers[scheme]
	if open == nil {
		return nil, fmt.Errorf("%s: unsupported destination scheme %q", dest, scheme)
	}
	if scheme == "file" {
		return open(ctx, rest, "")
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("%s: missing bucket name", dest)
	}
	return open(ctx, bucket, strings.Trim(prefix, "/"))
}
