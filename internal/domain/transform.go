package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
)

var (
	// ErrNoLocation is returned when a record has neither coordinates nor a code.
	ErrNoLocation = errors.New("record has no coordinates or plus code")
	// ErrNoLocality is returned for a short code without coordinates or a
	// locality to recover it against.
	ErrNoLocality = errors.New("short code has no reference locality")
)

// ParseRawEvent deserializes a RawEvent's value into a LocationEvent.
// Coordinates that are empty or unparseable are treated as absent.
func ParseRawEvent(raw RawEvent) (LocationEvent, error) {
	var rec RawLocationRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return LocationEvent{}, fmt.Errorf("parse raw event: %w", err)
	}

	code := strings.ToUpper(strings.TrimSpace(rec.Code))
	event := LocationEvent{
		ID:         rec.ID,
		InputCode:  code,
		Locality:   Locality{Name: strings.TrimSpace(rec.Locality), Region: strings.TrimSpace(rec.Region)},
		CodeLength: rec.CodeLength,
		RawPayload: raw.Value,
	}

	lat, latOK := parseCoordinate(rec.Lat)
	lon, lonOK := parseCoordinate(rec.Lon)
	if latOK && lonOK {
		event.Geo = &Geo{Lat: lat, Lon: lon}
	}
	if event.ID == "" {
		event.ID = generateID(event.Geo, code, event.Locality)
	}
	return event, nil
}

// parseCoordinate parses a decimal degree string. NaN and infinities are
// rejected along with malformed input.
func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// generateID produces a deterministic ID from the record's location fields.
// Reprocessing the same record yields the same ID.
func generateID(geo *Geo, code string, loc Locality) string {
	var input string
	if geo != nil {
		input = fmt.Sprintf("%.6f|%.6f|%s|%s|%s", geo.Lat, geo.Lon, code, loc.Name, loc.Region)
	} else {
		input = fmt.Sprintf("||%s|%s|%s", code, loc.Name, loc.Region)
	}
	hash := sha256.Sum256([]byte(input))
	return "loc-" + hex.EncodeToString(hash[:8])
}

// EnrichLocationEvent attaches plus-code data to a parsed event.
//
// With coordinates, the event is encoded at its own code length, or
// defaultLen when the record did not ask for one. Without coordinates, a full
// input code is decoded and its centre becomes the event's location; a short
// input code is kept for recovery against its locality during geocoding.
func EnrichLocationEvent(event LocationEvent, defaultLen int) (LocationEvent, error) {
	event.ProcessedAt = clock.Now()
	if event.CodeLength == 0 {
		event.CodeLength = defaultLen
	}

	switch {
	case event.Geo != nil:
		code, err := olc.Encode(event.Geo.Lat, event.Geo.Lon, event.CodeLength)
		if err != nil {
			return event, fmt.Errorf("encode %s: %w", event.ID, err)
		}
		return withCode(event, code)

	case event.InputCode == "":
		return event, fmt.Errorf("%s: %w", event.ID, ErrNoLocation)

	case olc.IsFull(event.InputCode):
		decoded, err := withCode(event, event.InputCode)
		if err != nil {
			return event, err
		}
		lat, lon := centerOf(*decoded.Area)
		decoded.Geo = &Geo{Lat: lat, Lon: lon}
		return decoded, nil

	case olc.IsShort(event.InputCode):
		if event.Locality.Name == "" {
			return event, fmt.Errorf("%s: %w", event.ID, ErrNoLocality)
		}
		event.ShortCode = event.InputCode
		return event, nil

	default:
		return event, fmt.Errorf("%s: %w: %q", event.ID, olc.ErrInvalidCode, event.InputCode)
	}
}

// withCode sets the full code of an event along with its decoded area.
func withCode(event LocationEvent, code string) (LocationEvent, error) {
	area, err := olc.Decode(code)
	if err != nil {
		return event, fmt.Errorf("decode %s: %w", event.ID, err)
	}
	event.PlusCode = code
	event.CodeLength = area.Len
	event.Area = &Area{South: area.LatLo, West: area.LngLo, North: area.LatHi, East: area.LngHi}
	return event, nil
}

func centerOf(a Area) (lat, lon float64) {
	return olc.CodeArea{LatLo: a.South, LngLo: a.West, LatHi: a.North, LngHi: a.East}.Center()
}

// SerializeLocationEvent marshals an event into the sink topic format.
func SerializeLocationEvent(event LocationEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize location event: %w", err)
	}
	headers := map[string]string{
		"processed_at": event.ProcessedAt.UTC().Format(time.RFC3339),
	}
	if event.PlusCode != "" {
		headers["plus_code"] = event.PlusCode
	}
	if event.GeoSource != "" {
		headers["geo_source"] = event.GeoSource
	}
	return OutputEvent{
		Key:     []byte(event.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
