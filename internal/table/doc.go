// Package table turns an aligned pipeline into a per-entity property table
// and exports it.
//
// The table has one row per entity and, for every master position, one
// column per property name. A missing snapshot fills every property column of
// that position with a missing value; so does a property absent from an
// observed snapshot.
package table
