// Package ir provides the core data types for hyperpipe.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - A Snapshot is either Missing or Observed, distinguished by tag and never
//     by a reserved property value
//   - EntityTrace and Pipeline always carry one snapshot (row) per stage
//   - Pipeline cells are column-indexed, so every position covers exactly the
//     same entities
//   - Buffer iteration order is first-seen order, never map order
package ir
