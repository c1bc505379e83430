package tracing

// Span names for catalogue stage computations.
const (
	SpanDiscover     = "catalog.discover"
	SpanBuildSources = "catalog.build_sources"
	SpanBuildOptions = "catalog.build_options"
	SpanLoadRegistry = "registry.load"
)

// Span attribute keys.
const (
	AttrRegistrySize = "registry.size"
	AttrResultSize   = "result.size"
	AttrOverwritten  = "catalog.overwritten"
	AttrErrorType    = "error.type"
)
