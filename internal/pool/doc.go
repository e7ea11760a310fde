// Package pool provides pooled buffers for decompression, string folding
// and numeric summaries.
package pool
