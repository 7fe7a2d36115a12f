// Package aggregates defines the write boundaries of the memory subsystem.
//
// Each aggregate owns the transaction for its writes and enforces the invariants
// that span more than one row: theme counters against occurrences, one artifact
// per (session, type), the goal state machine and immutable session closure.
// Implementations live in internal/data/aggregates.
package aggregates
