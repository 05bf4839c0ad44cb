// Package database provides SQLite connectivity for the edgenode
// settings store.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Connection lifecycle and health checks
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// The schema itself is owned by the consuming package (internal/settings
// bootstraps its single table on open); this package only hands out a
// configured connection.
package database
