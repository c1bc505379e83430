package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/invsources/internal/registry"
)

// RegistryBuilder accumulates injectors and registers them in order.
type RegistryBuilder struct {
	t         *testing.T
	injectors []*registry.Injector
}

// NewRegistryBuilder creates a builder for a fresh registry.
func NewRegistryBuilder(t *testing.T) *RegistryBuilder {
	t.Helper()
	return &RegistryBuilder{t: t}
}

// WithPlugin adds an injector for id. The plugin name defaults to id.
func (b *RegistryBuilder) WithPlugin(id string, opts ...InjectorOption) *RegistryBuilder {
	inj := &registry.Injector{ID: id, PluginName: id}
	for _, opt := range opts {
		opt(inj)
	}
	b.injectors = append(b.injectors, inj)
	return b
}

// WithReserved adds the reserved constructed injector.
func (b *RegistryBuilder) WithReserved() *RegistryBuilder {
	return b.WithPlugin("constructed", InCollection("ansible", "builtin"))
}

// Build registers everything and fails the test on error.
func (b *RegistryBuilder) Build() *registry.Registry {
	b.t.Helper()
	reg := registry.New()
	require.NoError(b.t, reg.RegisterAll(b.injectors...))
	return reg
}

// InjectorOption customises an injector added through WithPlugin.
type InjectorOption func(*registry.Injector)

// InCollection sets the namespace and collection.
func InCollection(namespace, collection string) InjectorOption {
	return func(inj *registry.Injector) {
		inj.Namespace = namespace
		inj.Collection = collection
	}
}

// WithPluginName overrides the Ansible inventory plugin name.
func WithPluginName(name string) InjectorOption {
	return func(inj *registry.Injector) {
		inj.PluginName = name
	}
}

// WithDescription sets the human-readable description.
func WithDescription(description string) InjectorOption {
	return func(inj *registry.Injector) {
		inj.Description = description
	}
}
