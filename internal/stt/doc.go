// Package stt invokes the external speech-to-text engine that turns the
// source audio into a timed transcript. Model selection and language
// handling live in the engine; this package only manages the invocation
// and the transcript file contract.
package stt
