// Package models knows the downloadable speech-model catalog and fetches
// and unpacks model archives into the local model directory.
package models
