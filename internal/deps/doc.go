// Package deps verifies the external tools the pipeline shells out to
// before any work starts.
package deps
