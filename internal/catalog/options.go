package catalog

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/invsources/internal/cachemanager"
	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/tracing"
)

// CombinedOptionsBuilder adds the file entry to the source catalogue. Its
// result is what the serializer offers as inventory source choices.
type CombinedOptionsBuilder struct {
	sources *SourceCatalogBuilder
	tracer  trace.Tracer
	slot    *cachemanager.ReadThroughCache[Stage, *Catalog]
}

func NewCombinedOptionsBuilder(sources *SourceCatalogBuilder, tracer trace.Tracer) *CombinedOptionsBuilder {
	b := &CombinedOptionsBuilder{
		sources: sources,
		tracer:  orNoop(tracer),
	}
	b.slot = cachemanager.NewReadThroughCache[Stage, *Catalog](newSlotCache[*Catalog](StageCombinedOptions), b.build)
	return b
}

// Build returns the combined options.
func (b *CombinedOptionsBuilder) Build(ctx context.Context) (*Catalog, error) {
	return b.slot.Get(ctx, StageCombinedOptions)
}

func (b *CombinedOptionsBuilder) build(ctx context.Context) (*Catalog, error) {
	ctx, span := b.tracer.Start(ctx, tracing.SpanBuildOptions)
	defer span.End()

	sources, err := b.sources.Build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build combined options: %w", err)
	}

	options, overwritten := sources.extend(FileSource)
	span.SetAttributes(
		attribute.Int(tracing.AttrResultSize, options.Len()),
		attribute.StringSlice(tracing.AttrOverwritten, overwritten),
	)
	if len(overwritten) > 0 {
		log.Warn(log.CatCatalog, "File option replaced an existing source entry", "keys", overwritten)
	}
	log.Debug(log.CatCatalog, "Built combined options", "count", options.Len())

	return options, nil
}

// Reset empties the slot. Upstream slots are left alone.
func (b *CombinedOptionsBuilder) Reset(ctx context.Context) error {
	return b.slot.Reset(ctx)
}

// Computations reports how many times the options have been built.
func (b *CombinedOptionsBuilder) Computations() int64 {
	return b.slot.Loads()
}
