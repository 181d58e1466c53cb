// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package s3 implements the fs.FS interface using Amazon S3 or any
// S3-compatible object store.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tpool-lab/poolbench/storage/fs"
)

// putter is the subset of *s3.Client used by FS.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// FS is an fs.FS backed by an S3 bucket.
type FS struct {
	client putter
	bucket string
	prefix string
}

// NewFS constructs an FS that writes to bucket, prefixing object keys
// with prefix. Credentials and region come from the SDK's default
// configuration chain.
func NewFS(ctx context.Context, bucket, prefix string) (*FS, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &FS{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

// NewWriter buffers the object in memory and uploads it on Close.
func (f *FS) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	return &writer{ctx: ctx, fs: f, key: path.Join(f.prefix, name), metadata: metadata}, nil
}

type writer struct {
	ctx      context.Context
	fs       *FS
	key      string
	metadata map[string]string
	buf      bytes.Buffer
	done     bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, errors.New("write after close")
	}
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	if w.done {
		return errors.New("already closed")
	}
	w.done = true
	_, err := w.fs.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:   aws.String(w.fs.bucket),
		Key:      aws.String(w.key),
		Body:     bytes.NewReader(w.buf.Bytes()),
		Metadata: w.metadata,
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", w.fs.bucket, w.key, err)
	}
	return nil
}

// CloseWithError discards the buffered object.
func (w *writer) CloseWithError(error) error {
	w.done = true
	w.buf.Reset()
	return nil
}

func init() {
	fs.RegisterScheme("s3", func(ctx context.Context, bucket, prefix string) (fs.FS, error) {
		f, err := NewFS(ctx, bucket, prefix)
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
