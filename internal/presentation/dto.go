package presentation

import (
	"github.com/zjrosen/invsources/internal/catalog"
	"github.com/zjrosen/invsources/internal/registry"
)

// ChoiceDTO is one selectable inventory source as offered to API clients.
type ChoiceDTO struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// InjectorDTO represents a registered plugin and where it comes from.
type InjectorDTO struct {
	ID          string `json:"id" yaml:"id"`
	FQCN        string `json:"fqcn" yaml:"fqcn"`
	Namespace   string `json:"namespace" yaml:"namespace"`
	Collection  string `json:"collection" yaml:"collection"`
	PluginName  string `json:"plugin_name" yaml:"plugin_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Labels for the entries that never come from the registry.
var fixedLabels = map[string]string{
	catalog.SCMSource:  "Sourced from a Project",
	catalog.FileSource: "File, Directory or Script",
}

// LabelFunc returns a display label for a catalogue value, or "" if it has none.
type LabelFunc func(value string) string

// RegistryLabels labels values with the matching injector description.
func RegistryLabels(reg *registry.Registry) LabelFunc {
	return func(value string) string {
		inj, err := reg.Lookup(value)
		if err != nil {
			return ""
		}
		return inj.Description
	}
}

// FromCatalog converts a catalogue into choices, in catalogue order. Fixed
// entries get their built-in label; everything else asks labels, falling back
// to the value itself.
func FromCatalog(c *catalog.Catalog, labels LabelFunc) []ChoiceDTO {
	pairs := c.Pairs()
	choices := make([]ChoiceDTO, len(pairs))
	for i, p := range pairs {
		label := fixedLabels[p.Key]
		if label == "" && labels != nil {
			label = labels(p.Value)
		}
		if label == "" {
			label = p.Value
		}
		choices[i] = ChoiceDTO{Value: p.Value, Label: label}
	}
	return choices
}

// FromInjector converts a registry injector to a DTO
func FromInjector(inj *registry.Injector) InjectorDTO {
	return InjectorDTO{
		ID:          inj.ID,
		FQCN:        inj.FQCN(),
		Namespace:   inj.Namespace,
		Collection:  inj.Collection,
		PluginName:  inj.PluginName,
		Description: inj.Description,
	}
}

// FromInjectors converts a slice of injectors to DTOs
func FromInjectors(injectors []*registry.Injector) []InjectorDTO {
	dtos := make([]InjectorDTO, len(injectors))
	for i, inj := range injectors {
		dtos[i] = FromInjector(inj)
	}
	return dtos
}
