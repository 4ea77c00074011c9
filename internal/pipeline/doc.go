// Package pipeline runs one compression batch: collect the source files,
// transform each through a codec, write the results, then produce the
// optional JSON sprite bundle, precompressed siblings and statistics report.
//
// Steps run in order and the first failure aborts the rest. The returned
// error names the step that failed.
package pipeline
