// Package aggregates implements the memory aggregate contracts.
//
// Implementations compose table repos from internal/data/repos and own the
// transaction boundary of every write that must keep a cross-row invariant.
package aggregates
