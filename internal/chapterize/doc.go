// Package chapterize drives the end-to-end audiobook conversion: obtain a
// transcript, find chapter boundaries, merge metadata, and cut and tag one
// output file per chapter.
//
// The Pipeline type sequences the fatal-on-error stages (locking,
// preflight, probing, boundary resolution, metadata merging); the
// Orchestrator runs the per-chapter cut and tag operations on a bounded
// worker pool, isolating each chapter's failure so one bad chapter never
// aborts the run. The resulting Report is keyed by ordinal and classifies
// the run as success, partial, failed, or no boundaries.
package chapterize
