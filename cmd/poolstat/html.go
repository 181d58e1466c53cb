// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Thread Pool Benchmark Summary</title>
<style>
.poolstat { border-collapse: collapse; margin-bottom: 1em; }
.poolstat th { border-bottom: 1px solid #666; text-align: left; }
.poolstat td { padding: 0em 1em; }
.poolstat td.num { text-align: right; }
.poolstat .warn { color: #c00; }
</style>
</head>
<body>
{{- range .}}
<table class="poolstat">
<tr><th>{{.Metric}}<th>n<th>min<th>mean<th>max<th>median<th>{{.Confidence}} CI
{{- range .Rows}}
<tr><td>{{.Config}}<td class="num">{{.N}}<td class="num">{{.Min}}<td class="num">{{.Mean}}<td class="num">{{.Max}}<td class="num">{{.Median}}<td>{{.Interval}}{{range .Warnings}} <span class="warn">{{.}}</span>{{end}}
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

// formatHTML writes the tables to w as an HTML document.
func formatHTML(w io.Writer, tables []*table) error {
	return htmlTemplate.Execute(w, tables)
}
