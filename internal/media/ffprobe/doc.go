// Package ffprobe wraps ffprobe invocations for container inspection and
// duration discovery.
package ffprobe
