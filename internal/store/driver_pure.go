//go:build ember_purego

package store

import _ "modernc.org/sqlite"

// driverName selects modernc.org/sqlite, a pure-Go driver, when the
// repository is built with -tags ember_purego.
const driverName = "sqlite"
