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

// Fixed, non-discovered catalogue entries.
const (
	SCMSource         = "scm"
	ConstructedSource = ReservedIdentifier
	FileSource        = "file"
)

// SourceCatalogBuilder maps the discovered plugins to themselves and adds the
// scm and constructed entries, in that order.
type SourceCatalogBuilder struct {
	discoverer *Discoverer
	tracer     trace.Tracer
	slot       *cachemanager.ReadThroughCache[Stage, *Catalog]
}

func NewSourceCatalogBuilder(discoverer *Discoverer, tracer trace.Tracer) *SourceCatalogBuilder {
	b := &SourceCatalogBuilder{
		discoverer: discoverer,
		tracer:     orNoop(tracer),
	}
	b.slot = cachemanager.NewReadThroughCache[Stage, *Catalog](newSlotCache[*Catalog](StageSourceCatalog), b.build)
	return b
}

// Build returns the source catalogue.
func (b *SourceCatalogBuilder) Build(ctx context.Context) (*Catalog, error) {
	return b.slot.Get(ctx, StageSourceCatalog)
}

func (b *SourceCatalogBuilder) build(ctx context.Context) (*Catalog, error) {
	ctx, span := b.tracer.Start(ctx, tracing.SpanBuildSources)
	defer span.End()

	names, err := b.discoverer.Discover(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build source catalog: %w", err)
	}

	sources, overwritten := identityCatalog(names).extend(SCMSource, ConstructedSource)
	span.SetAttributes(
		attribute.Int(tracing.AttrResultSize, sources.Len()),
		attribute.StringSlice(tracing.AttrOverwritten, overwritten),
	)
	if len(overwritten) > 0 {
		log.Warn(log.CatCatalog, "Fixed source entries replaced discovered plugins", "keys", overwritten)
	}
	log.Debug(log.CatCatalog, "Built source catalog", "count", sources.Len())

	return sources, nil
}

// Reset empties the slot. The discoverer's slot is left alone.
func (b *SourceCatalogBuilder) Reset(ctx context.Context) error {
	return b.slot.Reset(ctx)
}

// Computations reports how many times the catalogue has been built.
func (b *SourceCatalogBuilder) Computations() int64 {
	return b.slot.Loads()
}
