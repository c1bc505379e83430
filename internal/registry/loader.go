package registry

import (
	_ "embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/invsources/internal/log"
)

//go:embed injectors.yaml
var builtinInjectors []byte

// InjectorFile is the root structure of an injectors YAML document.
type InjectorFile struct {
	Injectors []*Injector `yaml:"injectors"`
}

// ParseInjectors decodes an injectors YAML document.
// Entries are returned in document order; ids are trimmed.
func ParseInjectors(data []byte) ([]*Injector, error) {
	var file InjectorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse injectors: %w", err)
	}

	for i, inj := range file.Injectors {
		if inj == nil {
			return nil, fmt.Errorf("injector %d: %w", i, ErrNilInjector)
		}
		inj.ID = strings.TrimSpace(inj.ID)
		if inj.ID == "" {
			return nil, fmt.Errorf("injector %d: %w", i, ErrEmptyPluginID)
		}
	}
	return file.Injectors, nil
}

// LoadFile reads an injectors YAML file from fsys and registers every entry.
func (r *Registry) LoadFile(fsys fs.FS, path string) error {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	injectors, err := ParseInjectors(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := r.RegisterAll(injectors...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	log.Info(log.CatRegistry, "Loaded injectors file", "path", path, "count", len(injectors))
	return nil
}

// Builtin returns a registry populated with the embedded built-in injectors.
func Builtin() (*Registry, error) {
	injectors, err := ParseInjectors(builtinInjectors)
	if err != nil {
		return nil, fmt.Errorf("builtin injectors: %w", err)
	}

	reg := New()
	if err := reg.RegisterAll(injectors...); err != nil {
		return nil, fmt.Errorf("builtin injectors: %w", err)
	}
	return reg, nil
}
