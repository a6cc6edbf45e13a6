// Package memstore provides in-memory, test-grade implementations of the
// credential store, intent stores, and OTP store ports. The user store is a
// unified adapter: one type satisfying both the reader and writer facets.
//
// Nothing here persists or expires; production deployments use the Redis and
// PostgreSQL adapters or supply their own.
package memstore
