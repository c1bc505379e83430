package registry

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/zjrosen/invsources/internal/log"
)

// Registry errors
var (
	ErrDuplicatePlugin = errors.New("plugin already registered")
	ErrEmptyPluginID   = errors.New("plugin id cannot be empty")
	ErrNilInjector     = errors.New("injector cannot be nil")
	ErrNotFound        = errors.New("plugin not found")
)

// KeySource enumerates the registered plugin identifiers in registration order.
type KeySource interface {
	Keys() []string
}

// Injector describes how an inventory source plugin is wired into Ansible.
type Injector struct {
	ID          string `yaml:"id" json:"id"`
	Namespace   string `yaml:"namespace" json:"namespace"`
	Collection  string `yaml:"collection" json:"collection"`
	PluginName  string `yaml:"plugin_name" json:"plugin_name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FQCN returns the fully qualified collection name of the inventory plugin,
// e.g. amazon.aws.aws_ec2. Empty parts are skipped.
func (i *Injector) FQCN() string {
	switch {
	case i.Namespace == "" && i.Collection == "":
		return i.PluginName
	case i.PluginName == "":
		return i.Namespace + "." + i.Collection
	default:
		return i.Namespace + "." + i.Collection + "." + i.PluginName
	}
}

// Registry maps plugin identifiers to injectors, preserving registration order.
// It is populated during startup and read-only afterwards.
type Registry struct {
	injectors *orderedmap.OrderedMap[string, *Injector]
}

var _ KeySource = (*Registry)(nil)

// New creates an empty registry
func New() *Registry {
	return &Registry{
		injectors: orderedmap.New[string, *Injector](),
	}
}

// Register adds an injector under its ID.
func (r *Registry) Register(inj *Injector) error {
	if inj == nil {
		return ErrNilInjector
	}
	if inj.ID == "" {
		return ErrEmptyPluginID
	}
	if _, exists := r.injectors.Get(inj.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, inj.ID)
	}

	r.injectors.Set(inj.ID, inj)
	log.Debug(log.CatRegistry, "Registered injector", "id", inj.ID, "fqcn", inj.FQCN())
	return nil
}

// RegisterAll registers injectors in order, stopping at the first failure.
func (r *Registry) RegisterAll(injectors ...*Injector) error {
	for _, inj := range injectors {
		if err := r.Register(inj); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the plugin identifiers in registration order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, r.injectors.Len())
	for pair := r.injectors.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Lookup returns the injector registered under id.
func (r *Registry) Lookup(id string) (*Injector, error) {
	inj, ok := r.injectors.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return inj, nil
}

// Injectors returns all injectors in registration order.
func (r *Registry) Injectors() []*Injector {
	result := make([]*Injector, 0, r.injectors.Len())
	for pair := r.injectors.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return r.injectors.Len()
}
