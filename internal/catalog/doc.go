// Package catalog derives the selectable inventory source types from the
// plugin registry.
//
// Three stages run strictly forward, each memoized in its own slot:
//
//   - Discoverer lists the registry's plugin ids in registration order and
//     removes the reserved "constructed" id.
//   - SourceCatalogBuilder maps every discovered name to itself and adds the
//     fixed "scm" and "constructed" entries.
//   - CombinedOptionsBuilder adds the fixed "file" entry. This is the mapping
//     the presentation layer hands to clients.
//
// A stage computes at most once per slot lifetime: concurrent first calls
// share one computation and every later call returns the stored result. The
// registry is assumed immutable once the process is ready, so slots are never
// invalidated in normal operation. Reset exists for tests.
//
// Fixed entries are applied after the discovered ones. When a discovered name
// collides with a fixed one, the fixed value wins and the key keeps the
// position where it was first inserted.
//
// A registry without "constructed" is a misconfiguration. Discovery fails with
// ErrReservedIdentifierMissing, every dependent stage returns that same error,
// and nothing is stored so the slot stays unpopulated.
package catalog
