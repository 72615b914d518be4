// Package sqlite provides a unified SQLite-based implementation of the
// driven store interfaces.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database
// connection backs all store interfaces through wrapper types:
//
//   - FileStore: file catalogue reads and candidate selection
//   - TagStore: filing tag taxonomy reads
//   - LabelStore: tag label assignment persistence
//   - ContentStore: extracted text and embedding persistence
//   - ExclusionStore: path exclusion rule reads
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.filetagger/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
