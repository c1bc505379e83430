package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/invsources/internal/cachemanager"
	"github.com/zjrosen/invsources/internal/log"
	"github.com/zjrosen/invsources/internal/registry"
	"github.com/zjrosen/invsources/internal/tracing"
)

// ReservedIdentifier is registered as a plugin but never offered as a
// discovered one. It comes back as a fixed catalogue entry.
const ReservedIdentifier = "constructed"

// ErrReservedIdentifierMissing means the registry does not contain
// ReservedIdentifier. The registry is misconfigured; there is no fallback.
var ErrReservedIdentifierMissing = errors.New("reserved plugin identifier missing from registry")

// Discoverer lists the registered plugin names minus ReservedIdentifier.
type Discoverer struct {
	source registry.KeySource
	tracer trace.Tracer
	slot   *cachemanager.ReadThroughCache[Stage, []string]
}

// NewDiscoverer creates a Discoverer reading from source on its first call.
func NewDiscoverer(source registry.KeySource, tracer trace.Tracer) *Discoverer {
	d := &Discoverer{
		source: source,
		tracer: orNoop(tracer),
	}
	d.slot = cachemanager.NewReadThroughCache[Stage, []string](newSlotCache[[]string](StagePluginNames), d.discover)
	return d
}

// Discover returns the plugin names in registration order. The registry is
// read only when the slot is empty. The returned slice is the caller's own.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	names, err := d.slot.Get(ctx, StagePluginNames)
	if err != nil {
		return nil, err
	}
	return slices.Clone(names), nil
}

func (d *Discoverer) discover(ctx context.Context) ([]string, error) {
	_, span := d.tracer.Start(ctx, tracing.SpanDiscover)
	defer span.End()

	keys := slices.Clone(d.source.Keys())
	span.SetAttributes(attribute.Int(tracing.AttrRegistrySize, len(keys)))

	idx := slices.Index(keys, ReservedIdentifier)
	if idx < 0 {
		err := fmt.Errorf("%w: %q not among %d registered plugins", ErrReservedIdentifierMissing, ReservedIdentifier, len(keys))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(tracing.AttrErrorType, "registry_invariant_violation"))
		log.ErrorErr(log.CatCatalog, "Plugin discovery failed", err, "registry_size", len(keys))
		return nil, err
	}

	names := slices.Delete(keys, idx, idx+1)
	span.SetAttributes(attribute.Int(tracing.AttrResultSize, len(names)))
	log.Debug(log.CatCatalog, "Discovered plugins", "count", len(names), "names", names)

	return names, nil
}

// Reset empties the slot so the next call reads the registry again.
func (d *Discoverer) Reset(ctx context.Context) error {
	return d.slot.Reset(ctx)
}

// Computations reports how many times the registry has been read.
func (d *Discoverer) Computations() int64 {
	return d.slot.Loads()
}
