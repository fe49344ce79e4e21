// Package store provides SQLite-backed storage for alignment runs.
//
// A run is one aligned pipeline together with where it came from:
//   - runs: one row per run, keyed by a UUIDv7 and unique by content digest
//   - run_entities: pipeline columns in fold order
//   - run_stages: the master stage sequence
//   - run_cells: one row per (position, column), missing cells included
//
// # Ordering
//
// Runs carry a logical sequence number (created_seq), never a timestamp.
// Listing is ORDER BY created_seq ASC, id COLLATE BINARY ASC, so identical
// databases list identically.
//
// # Identity
//
// The digest column is ir.PipelineDigest of the stored pipeline. Writing a
// pipeline whose digest is already present returns the existing run ID and
// writes nothing.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
