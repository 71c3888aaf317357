// Package analyst answers natural-language analytical questions over the
// PIRLS 2021 dataset.
//
// A question flows through four stages: a bounded tool-augmented reasoning
// loop (package agent) with schema introspection, query execution, chart
// rendering and web search tools (package tools); a transcript scan that
// recovers the executed query and the last chart reference; best-effort
// persistence of the rendered chart to durable storage (package artifact);
// and a final guarded synthesis call that narrates the raw result for the
// reader. The pipeline is fully synchronous per request, and chart-side
// failures degrade to a chart-less answer instead of failing the request.
package analyst
