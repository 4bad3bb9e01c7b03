package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/couchcryptid/pluscode-etl/internal/observability"
)

// LocationTransformer implements Transformer: parse, attach the plus code,
// geocode, serialize.
type LocationTransformer struct {
	geocoder   domain.Geocoder
	codeLength int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a LocationTransformer encoding at codeLength when a
// record does not choose its own length. Pass a nil geocoder to disable
// locality enrichment.
func NewTransformer(geocoder domain.Geocoder, codeLength int, metrics *observability.Metrics, logger *slog.Logger) *LocationTransformer {
	return &LocationTransformer{
		geocoder:   geocoder,
		codeLength: codeLength,
		metrics:    metrics,
		logger:     logger,
	}
}

// Transform turns one raw location report into its enriched sink message.
func (t *LocationTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	event, err := t.Enrich(ctx, raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	return domain.SerializeLocationEvent(event)
}

// Enrich runs every transformation step but serialization.
func (t *LocationTransformer) Enrich(ctx context.Context, raw domain.RawEvent) (domain.LocationEvent, error) {
	event, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.LocationEvent{}, err
	}

	event, err = domain.EnrichLocationEvent(event, t.codeLength)
	if err != nil {
		return domain.LocationEvent{}, err
	}
	shortInput := event.PlusCode == ""

	event = domain.EnrichWithGeocoding(ctx, event, t.geocoder, t.logger)
	t.observe(event, shortInput)
	return event, nil
}

func (t *LocationTransformer) observe(event domain.LocationEvent, shortInput bool) {
	if t.metrics == nil {
		return
	}
	if event.PlusCode != "" {
		t.metrics.CodesEncoded.Inc()
	}
	if t.geocoder == nil {
		return
	}
	if shortInput {
		if event.GeoSource == domain.GeoSourceForward {
			t.metrics.Recover.WithLabelValues("recovered").Inc()
		} else {
			t.metrics.Recover.WithLabelValues("error").Inc()
		}
		return
	}
	if event.GeoSource == domain.GeoSourceReverse {
		if event.ShortCode != "" {
			t.metrics.Shorten.WithLabelValues("shortened").Inc()
		} else {
			t.metrics.Shorten.WithLabelValues("too_far").Inc()
		}
	}
}
