// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package benchdrive

import (
	"fmt"
	"runtime"
)

func dropCaches(path string) error {
	return fmt.Errorf("dropping the page cache is not supported on %s", runtime.GOOS)
}
