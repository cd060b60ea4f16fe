// Package metrics provides build metrics for docatlas.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection needs no nil checks at call sites:
//
//	conv := convert.New(res, convert.WithRecorder(metrics.OrNoop(rec)))
//
// PrometheusRecorder registers its collectors on a caller-owned registry.
// A one-shot build writes the registry with WriteTextfile for the node
// exporter textfile collector; watch mode can serve it over HTTP with
// HTTPHandler.
package metrics
