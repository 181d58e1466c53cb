// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeClient struct {
	puts map[string]string
	meta map[string]map[string]string
}

func (c *fakeClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	c.puts[key] = string(data)
	c.meta[key] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func TestWriter(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{puts: map[string]string{}, meta: map[string]map[string]string{}}
	f := &FS{client: c, bucket: "results", prefix: "run-1"}

	w, err := f.NewWriter(ctx, "graphs/x.png", map[string]string{"workload": "seq"})
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("abc"))
	w.Write([]byte("def"))
	if len(c.puts) != 0 {
		t.Errorf("uploaded before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := c.puts["results/run-1/graphs/x.png"]; got != "abcdef" {
		t.Errorf("uploaded %q, want abcdef (all puts: %v)", got, c.puts)
	}
	if c.meta["results/run-1/graphs/x.png"]["workload"] != "seq" {
		t.Errorf("metadata not uploaded")
	}
	if _, err := w.Write([]byte("x")); err == nil {
		t.Errorf("write after Close succeeded")
	}

	w, _ = f.NewWriter(ctx, "aborted", nil)
	w.Write([]byte("x"))
	w.CloseWithError(errors.New("abort"))
	if _, ok := c.puts["results/run-1/aborted"]; ok {
		t.Errorf("aborted object uploaded")
	}
}
