// Package memory provides in-memory implementations of the driven store
// interfaces. Used by service tests and as a reference for the store
// semantics without a database.
package memory
