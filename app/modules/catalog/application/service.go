package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"github.com/Black-And-White-Club/poptrivia/app/modules/catalog/infrastructure/filecache"
	"github.com/Black-And-White-Club/poptrivia/app/modules/catalog/infrastructure/restcountries"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultFreshnessWindow is how long a cached document is reused.
const DefaultFreshnessWindow = 24 * time.Hour

// Client fetches the raw country document from the remote endpoint.
type Client interface {
	FetchAll(ctx context.Context) (catalogdomain.Document, error)
}

// Cache persists the last fetched document.
type Cache interface {
	Load() (*filecache.Entry, error)
	Store(entry filecache.Entry) error
}

// Clock lets tests pin the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Options configures where data comes from and how long it stays fresh.
type Options struct {
	Endpoint        string
	FreshnessWindow time.Duration
}

// CatalogService loads the country catalog, preferring a fresh cache file
// over a live request.
type CatalogService struct {
	client  Client
	cache   Cache
	opts    Options
	clock   Clock
	logger  *slog.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	client Client,
	cache Cache,
	opts Options,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
) *CatalogService {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = DefaultFreshnessWindow
	}
	return &CatalogService{
		client:  client,
		cache:   cache,
		opts:    opts,
		clock:   realClock{},
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// WithClock replaces the clock used for freshness checks.
func (s *CatalogService) WithClock(clock Clock) *CatalogService {
	s.clock = clock
	return s
}

// FetchCatalog returns the raw document and where it came from
// (metrics.SourceCache or metrics.SourceNetwork). A nil document with a nil
// error means the endpoint answered without data.
func (s *CatalogService) FetchCatalog(ctx context.Context) (catalogdomain.Document, string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FetchCatalog", trace.WithAttributes(
		attribute.String("endpoint", s.opts.Endpoint),
	))
	defer span.End()

	if entry, ok := s.freshEntry(ctx); ok {
		s.logger.DebugContext(ctx, "Using cached country data",
			attr.ExtractCorrelationID(ctx),
			attr.String("fetched_at", entry.FetchedAt.Format(time.RFC3339)),
		)
		span.SetAttributes(attribute.String("source", metrics.SourceCache))
		return entry.Body, metrics.SourceCache, nil
	}

	span.SetAttributes(attribute.String("source", metrics.SourceNetwork))
	doc, err := s.fetchLive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, metrics.SourceNetwork, err
	}
	return doc, metrics.SourceNetwork, nil
}

// Refresh bypasses the cache and fetches the document from the endpoint.
func (s *CatalogService) Refresh(ctx context.Context) (catalogdomain.Document, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Refresh")
	defer span.End()

	doc, err := s.fetchLive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if doc == nil {
		return nil, ErrNoData
	}
	return doc, nil
}

// LoadCatalog fetches the document and builds the catalog from it.
func (s *CatalogService) LoadCatalog(ctx context.Context) (catalogdomain.Catalog, error) {
	doc, source, err := s.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := BuildCatalog(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog from %s data: %w", source, err)
	}

	s.metrics.RecordCatalogLoad(ctx, source, len(catalog))
	s.logger.InfoContext(ctx, "Country catalog loaded",
		attr.ExtractCorrelationID(ctx),
		attr.String("source", source),
		attr.Int("countries", len(catalog)),
	)
	return catalog, nil
}

func (s *CatalogService) freshEntry(ctx context.Context) (*filecache.Entry, bool) {
	entry, err := s.cache.Load()
	if err != nil {
		if errors.Is(err, filecache.ErrMiss) {
			s.logger.DebugContext(ctx, "No country cache yet", attr.ExtractCorrelationID(ctx))
		} else {
			s.logger.WarnContext(ctx, "Ignoring unusable country cache",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
		}
		return nil, false
	}

	if entry.Endpoint != "" && entry.Endpoint != s.opts.Endpoint {
		s.logger.InfoContext(ctx, "Country cache belongs to another endpoint",
			attr.ExtractCorrelationID(ctx),
			attr.String("cached_endpoint", entry.Endpoint),
		)
		return nil, false
	}

	if !entry.FreshAt(s.clock.Now(), s.opts.FreshnessWindow) {
		s.logger.DebugContext(ctx, "Country cache is stale",
			attr.ExtractCorrelationID(ctx),
			attr.String("fetched_at", entry.FetchedAt.Format(time.RFC3339)),
		)
		return nil, false
	}
	return entry, true
}

func (s *CatalogService) fetchLive(ctx context.Context) (catalogdomain.Document, error) {
	doc, err := s.client.FetchAll(ctx)
	if err != nil {
		if errors.Is(err, restcountries.ErrUnexpectedStatus) {
			s.logger.WarnContext(ctx, "Country endpoint returned no data",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch country data: %w", err)
	}

	entry := filecache.Entry{
		FetchedAt: s.clock.Now(),
		Endpoint:  s.opts.Endpoint,
		Body:      doc,
	}
	if err := s.cache.Store(entry); err != nil {
		return nil, fmt.Errorf("failed to write country cache: %w", err)
	}
	return doc, nil
}
