// Package transcache caches generated transcripts keyed by a blake3 hash
// of the audio content, backed by a small SQLite index.
package transcache
