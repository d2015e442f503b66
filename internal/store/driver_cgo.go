//go:build !ember_purego

package store

import _ "github.com/mattn/go-sqlite3"

// driverName is the database/sql driver registered for this build. The
// default build uses the cgo-backed mattn/go-sqlite3 driver; building
// with -tags ember_purego switches to modernc.org/sqlite instead, for
// environments without a C toolchain (see driver_pure.go).
const driverName = "sqlite3"
