// Package metrics records pipeline stage and run metrics.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional and call sites never nil-check:
//
//	gen := pipeline.NewGenerator(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI activates PrometheusRecorder when --metrics-file is given and writes
// the registry in the node_exporter textfile format once the command ends.
package metrics
