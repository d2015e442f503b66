// Package logging provides opt-in file-based logging with rotation for
// ember. When the --debug flag is set, structured JSON logs are written
// to ~/.ember/logs/ for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr
// only, preserving a quiet CLI surface.
package logging
