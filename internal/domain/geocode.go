package domain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
)

// Values of LocationEvent.GeoSource.
const (
	GeoSourceForward  = "forward"
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// EnrichWithGeocoding relates an event to a named locality.
//
// An event with coordinates is reverse geocoded and its full code shortened
// against the locality centre, giving a ShortCode that reads as
// "CWC8+R9 Mountain View". An event holding only a short code has its locality
// forward geocoded and the full code recovered from it.
//
// If geocoder is nil the event is returned unchanged. Failures set GeoSource
// to "failed" and leave the rest of the event intact.
func EnrichWithGeocoding(ctx context.Context, event LocationEvent, geocoder Geocoder, logger *slog.Logger) LocationEvent {
	if geocoder == nil {
		return event
	}

	// Forward: locality -> reference point -> full code.
	if event.Geo == nil && event.ShortCode != "" {
		result, err := geocoder.ForwardGeocode(ctx, event.Locality.Name, event.Locality.Region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"event_id", event.ID,
				"locality", event.Locality.Name,
				"region", event.Locality.Region,
				"error", err,
			)
			event.GeoSource = GeoSourceFailed
			return event
		}
		if !result.Found() {
			event.GeoSource = GeoSourceOriginal
			return event
		}

		full, err := olc.RecoverNearest(event.ShortCode, result.Lat, result.Lon)
		if err != nil {
			logger.Warn("recover short code failed",
				"event_id", event.ID,
				"short_code", event.ShortCode,
				"error", err,
			)
			event.GeoSource = GeoSourceFailed
			return event
		}
		recovered, err := withCode(event, full)
		if err != nil {
			event.GeoSource = GeoSourceFailed
			return event
		}
		lat, lon := centerOf(*recovered.Area)
		recovered.Geo = &Geo{Lat: lat, Lon: lon}
		recovered.FormattedAddress = result.FormattedAddress
		recovered.PlaceName = result.PlaceName
		recovered.GeoConfidence = result.Confidence
		recovered.GeoSource = GeoSourceForward
		return recovered
	}

	// Reverse: full code -> nearest locality -> short code.
	if event.Geo != nil && event.PlusCode != "" {
		result, err := geocoder.ReverseGeocode(ctx, event.Geo.Lat, event.Geo.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"event_id", event.ID,
				"lat", event.Geo.Lat,
				"lon", event.Geo.Lon,
				"error", err,
			)
			event.GeoSource = GeoSourceFailed
			return event
		}
		if !result.Found() {
			event.GeoSource = GeoSourceOriginal
			return event
		}

		event.FormattedAddress = result.FormattedAddress
		event.PlaceName = result.PlaceName
		event.GeoConfidence = result.Confidence
		event.GeoSource = GeoSourceReverse

		short, err := olc.Shorten(event.PlusCode, result.Lat, result.Lon)
		switch {
		case err == nil:
			event.ShortCode = short
			event.Locality = Locality{Name: result.PlaceName, Region: result.Region}
		case errors.Is(err, olc.ErrNotCloseEnough), errors.Is(err, olc.ErrPadded):
			logger.Debug("code not shortened",
				"event_id", event.ID,
				"plus_code", event.PlusCode,
				"locality", result.PlaceName,
				"reason", err,
			)
		default:
			logger.Warn("shorten code failed",
				"event_id", event.ID,
				"plus_code", event.PlusCode,
				"error", err,
			)
		}
		return event
	}

	event.GeoSource = GeoSourceOriginal
	return event
}
