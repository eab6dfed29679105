// Package engine provides the low-level wazero integration for the bridge.
//
// It wraps module compilation and instantiation, caches the guest allocator
// (cabi_realloc with an "allocate" fallback), and implements the string
// handoff between host and guest linear memory.
package engine
