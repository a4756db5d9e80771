// Package language maps speech-model language names and codes and carries
// the per-language chapter-marker vocabulary used by boundary detection.
package language
