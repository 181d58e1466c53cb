// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/tpool-lab/poolbench/storage/fs"
	"google.golang.org/api/option"
)

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
	name   string
	prefix string
}

// NewFS constructs an FS that writes to the provided bucket.
// Object names are prefixed with prefix, which may be empty.
func NewFS(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName), bucketName, prefix}, nil
}

func (g *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	w := g.bucket.Object(path.Join(g.prefix, name)).NewWriter(ctx)
	w.Metadata = metadata
	return w, nil
}

func init() {
	fs.RegisterScheme("gs", func(ctx context.Context, bucket, prefix string) (fs.FS, error) {
		return NewFS(ctx, bucket, prefix)
	})
}
