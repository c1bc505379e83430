package catalog

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/invsources/internal/cachemanager"
	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/registry"
)

// Stage names a memo slot.
type Stage string

const (
	StagePluginNames     Stage = "plugin_names"
	StageSourceCatalog   Stage = "source_catalog"
	StageCombinedOptions Stage = "combined_options"
)

func newSlotCache[V any](stage Stage) *cachemanager.InMemoryCacheManager[Stage, V] {
	return cachemanager.NewInMemoryCacheManager[Stage, V](string(stage), cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
}

func orNoop(tracer trace.Tracer) trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("catalog")
	}
	return tracer
}

// Option configures a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	tracer trace.Tracer
}

// WithTracer records one span per stage computation on tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *pipelineOptions) {
		o.tracer = tracer
	}
}

// Pipeline wires Discoverer, SourceCatalogBuilder and CombinedOptionsBuilder
// over one registry. Create one per process and share it.
type Pipeline struct {
	discoverer *Discoverer
	sources    *SourceCatalogBuilder
	options    *CombinedOptionsBuilder
}

// NewPipeline creates a pipeline over source. Nothing is read until the
// first accessor call.
func NewPipeline(source registry.KeySource, opts ...Option) *Pipeline {
	o := pipelineOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	discoverer := NewDiscoverer(source, o.tracer)
	sources := NewSourceCatalogBuilder(discoverer, o.tracer)
	return &Pipeline{
		discoverer: discoverer,
		sources:    sources,
		options:    NewCombinedOptionsBuilder(sources, o.tracer),
	}
}

// PluginNames returns the discovered plugin names.
func (p *Pipeline) PluginNames(ctx context.Context) ([]string, error) {
	return p.discoverer.Discover(ctx)
}

// SourceCatalog returns the discovered plugins plus scm and constructed.
func (p *Pipeline) SourceCatalog(ctx context.Context) (*Catalog, error) {
	return p.sources.Build(ctx)
}

// CombinedOptions returns the source catalogue plus file.
func (p *Pipeline) CombinedOptions(ctx context.Context) (*Catalog, error) {
	return p.options.Build(ctx)
}

// Warm computes every stage so later calls never touch the registry.
func (p *Pipeline) Warm(ctx context.Context) error {
	_, err := p.CombinedOptions(ctx)
	return err
}

// Reset returns every stage to its unpopulated state. Each stage first waits
// for a computation already running. Intended for tests.
func (p *Pipeline) Reset(ctx context.Context) error {
	err := errors.Join(
		p.options.Reset(ctx),
		p.sources.Reset(ctx),
		p.discoverer.Reset(ctx),
	)
	log.Debug(log.CatCache, "Pipeline slots reset")
	return err
}

// Stats counts the computations each stage has performed.
type Stats struct {
	PluginNames     int64 `json:"plugin_names" yaml:"plugin_names"`
	SourceCatalog   int64 `json:"source_catalog" yaml:"source_catalog"`
	CombinedOptions int64 `json:"combined_options" yaml:"combined_options"`
}

func (p *Pipeline) Stats() Stats {
	return Stats{
		PluginNames:     p.discoverer.Computations(),
		SourceCatalog:   p.sources.Computations(),
		CombinedOptions: p.options.Computations(),
	}
}
