// Package metadata merges per-chapter tag sets from embedded file tags,
// derived defaults, and CLI-supplied values under a fixed precedence
// policy. Merging is pure; no I/O happens here.
package metadata
