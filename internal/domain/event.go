package domain

import (
	"context"
	"time"
)

// RawLocationRecord is the flat JSON structure published by upstream
// collectors. Coordinates arrive as strings so that a missing value can be
// told apart from zero. A record carries coordinates, a plus code, or a short
// code together with the locality it is relative to.
type RawLocationRecord struct {
	ID         string `json:"id,omitempty"`
	Lat        string `json:"lat,omitempty"`
	Lon        string `json:"lon,omitempty"`
	Code       string `json:"code,omitempty"`     // full or short plus code
	Locality   string `json:"locality,omitempty"` // e.g. "Mountain View"
	Region     string `json:"region,omitempty"`   // e.g. "CA"
	CodeLength int    `json:"code_length,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Locality names the place a short code is relative to.
type Locality struct {
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`
}

// Area is the bounding box of a plus code cell in degrees.
type Area struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// LocationEvent is a location report after parsing and plus-code enrichment.
type LocationEvent struct {
	ID         string   `json:"id"`
	Geo        *Geo     `json:"geo,omitempty"`
	InputCode  string   `json:"input_code,omitempty"`
	PlusCode   string   `json:"plus_code,omitempty"`
	ShortCode  string   `json:"short_code,omitempty"`
	Locality   Locality `json:"locality,omitzero"`
	Area       *Area    `json:"area,omitempty"`
	CodeLength int      `json:"code_length,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Display returns the human form of the event's location: the short code
// followed by its locality when one is known, otherwise the full code.
func (e LocationEvent) Display() string {
	if e.ShortCode != "" && e.Locality.Name != "" {
		if e.Locality.Region != "" {
			return e.ShortCode + " " + e.Locality.Name + ", " + e.Locality.Region
		}
		return e.ShortCode + " " + e.Locality.Name
	}
	return e.PlusCode
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
