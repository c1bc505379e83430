package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/presentation"
	"github.com/zjrosen/invsources/internal/tracing"
)

// settable describes a key that SetValue may write and how its value is checked.
type settable struct {
	tag      string
	validate func(value string) error
}

var settableKeys = map[string]settable{
	"output.format": {tag: "!!str", validate: func(v string) error {
		_, err := presentation.ParseFormat(v)
		return err
	}},
	"registry.injectors_file": {tag: "!!str"},
	"registry.skip_builtin":   {tag: "!!bool", validate: validateBool},
	"log.enabled":             {tag: "!!bool", validate: validateBool},
	"log.path":                {tag: "!!str"},
	"log.level": {tag: "!!str", validate: func(v string) error {
		return ValidateLog(LogConfig{Level: v})
	}},
	"tracing.enabled": {tag: "!!bool", validate: validateBool},
	"tracing.exporter": {tag: "!!str", validate: func(v string) error {
		return ValidateTracing(tracing.Config{Exporter: v})
	}},
	"tracing.file_path":     {tag: "!!str"},
	"tracing.otlp_endpoint": {tag: "!!str"},
	"tracing.sample_rate": {tag: "!!float", validate: func(v string) error {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("tracing.sample_rate must be a number, got %q", v)
		}
		return ValidateTracing(tracing.Config{SampleRate: rate})
	}},
	"tracing.service_name": {tag: "!!str"},
}

func validateBool(v string) error {
	if _, err := strconv.ParseBool(v); err != nil {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	return nil
}

// SettableKeys lists the dotted keys accepted by SetValue, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetValue writes one dotted key (e.g. output.format) into the config file.
// Comments and unrelated settings are preserved by editing the yaml.Node tree.
func SetValue(configPath, key, value string) error {
	setting, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
	}
	if setting.validate != nil {
		if err := setting.validate(value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if setting.tag == "!!bool" {
		b, _ := strconv.ParseBool(value)
		value = strconv.FormatBool(b)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level must be a mapping")
	}

	node := doc.Content[0]
	path := strings.Split(key, ".")
	for _, section := range path[:len(path)-1] {
		child := mappingValue(node, section)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: section}, child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("parsing config: %s is not a mapping", section)
		}
		node = child
	}

	leaf := path[len(path)-1]
	// Non-string values are written untagged so they resolve implicitly.
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if setting.tag == "!!str" {
		scalar.Tag = setting.tag
	}
	if existing := mappingValue(node, leaf); existing != nil {
		scalar.HeadComment = existing.HeadComment
		scalar.LineComment = existing.LineComment
		scalar.FootComment = existing.FootComment
		*existing = *scalar
	} else {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: leaf}, scalar)
	}

	var buf bytes.Buffer
	if err := encodeNode(&buf, &doc); err != nil {
		return err
	}

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		return err
	}

	log.Info(log.CatConfig, "Updated config", "path", configPath, "key", key, "value", value)
	return nil
}

// encodeNode writes doc with two-space indentation and flushes the encoder.
func encodeNode(w io.Writer, doc *yaml.Node) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return nil
}

// mappingValue returns the value node stored under key, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames it.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".invsources.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
