// Package ffmpeg implements the external cut and tag-write operations and
// the embedded metadata/cover extraction helpers, all as ffmpeg
// invocations with stream copy.
package ffmpeg
