// Package registry holds the inventory source plugin registry: an ordered
// catalogue of plugin identifiers mapped to the injector metadata that tells
// the inventory subsystem which Ansible inventory plugin backs each source.
//
// The built-in injectors are embedded as YAML and loaded once at startup.
// Additional injectors can be merged from a user-supplied file before the
// registry is handed to its consumers; after that it is treated as read-only.
//
// Consumers that only need the identifiers depend on KeySource, which Registry
// implements, so tests can substitute a fake without touching the real catalogue.
package registry
