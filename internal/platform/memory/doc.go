// Package memory provides in-memory implementations of the storage interfaces
// defined in the internal/store package. State lives only for the lifetime of
// the process; each store instance is independent, so tests get a clean store
// by constructing a new one.
package memory
