// Package mocks provides hand-rolled test doubles for the store and service
// interfaces. Each mock offers per-method function overrides plus a simple
// in-memory default implementation.
package mocks
