package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
// Lat/Lon is the centre of the matched place.
type GeocodingResult struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	Region           string  `json:"region,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"` // 0.0–1.0 provider confidence score
}

// Found reports whether the provider matched a place.
func (r GeocodingResult) Found() bool {
	return r.PlaceName != "" || r.FormattedAddress != ""
}

// Geocoder resolves localities to places and back.
type Geocoder interface {
	// ForwardGeocode converts a locality name and region to coordinates.
	ForwardGeocode(ctx context.Context, name, region string) (GeocodingResult, error)

	// ReverseGeocode finds the locality nearest to a coordinate.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
