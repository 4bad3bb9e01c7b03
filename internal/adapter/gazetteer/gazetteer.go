// Package gazetteer resolves localities from a static TOML file. It serves as
// an offline geocoder when no Mapbox token is configured.
package gazetteer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

const earthRadiusKm = 6371.0

// ErrInvalidGazetteer is returned for a file with missing or out-of-range entries.
var ErrInvalidGazetteer = errors.New("invalid gazetteer")

// Locality is one [[locality]] table.
type Locality struct {
	Name   string  `toml:"name"`
	Region string  `toml:"region"`
	Lat    float64 `toml:"lat"`
	Lng    float64 `toml:"lng"`
}

type file struct {
	Localities []Locality `toml:"locality"`
}

// Gazetteer implements domain.Geocoder over a fixed list of localities.
type Gazetteer struct {
	localities    []Locality
	byName        map[string][]int
	maxDistanceKm float64
}

// Load reads a gazetteer file. Reverse lookups only match localities within
// maxDistanceKm of the query point.
func Load(path string, maxDistanceKm float64) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return Parse(data, maxDistanceKm)
}

// Parse builds a gazetteer from TOML content.
func Parse(data []byte, maxDistanceKm float64) (*Gazetteer, error) {
	var f file
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, fmt.Errorf("decode gazetteer: %w", err)
	}

	g := &Gazetteer{
		localities:    make([]Locality, 0, len(f.Localities)),
		byName:        make(map[string][]int, len(f.Localities)),
		maxDistanceKm: maxDistanceKm,
	}
	seen := make(map[string]bool, len(f.Localities))
	for i, loc := range f.Localities {
		loc.Name = strings.TrimSpace(loc.Name)
		loc.Region = strings.TrimSpace(loc.Region)
		switch {
		case loc.Name == "":
			return nil, fmt.Errorf("%w: locality %d has no name", ErrInvalidGazetteer, i)
		case loc.Lat < -90 || loc.Lat > 90:
			return nil, fmt.Errorf("%w: %s: latitude %v out of range", ErrInvalidGazetteer, loc.Name, loc.Lat)
		case loc.Lng < -180 || loc.Lng > 180:
			return nil, fmt.Errorf("%w: %s: longitude %v out of range", ErrInvalidGazetteer, loc.Name, loc.Lng)
		}
		key := nameKey(loc.Name, loc.Region)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate locality %s, %s", ErrInvalidGazetteer, loc.Name, loc.Region)
		}
		seen[key] = true

		name := strings.ToUpper(loc.Name)
		g.byName[name] = append(g.byName[name], len(g.localities))
		g.localities = append(g.localities, loc)
	}
	return g, nil
}

// Len returns the number of localities.
func (g *Gazetteer) Len() int { return len(g.localities) }

// Localities returns the entries in file order.
func (g *Gazetteer) Localities() []Locality {
	return slices.Clone(g.localities)
}

// ForwardGeocode matches name and region case-insensitively. An empty region
// matches the first locality with that name.
func (g *Gazetteer) ForwardGeocode(ctx context.Context, name, region string) (domain.GeocodingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeocodingResult{}, err
	}
	region = strings.TrimSpace(region)
	for _, i := range g.byName[strings.ToUpper(strings.TrimSpace(name))] {
		loc := g.localities[i]
		if region == "" || strings.EqualFold(loc.Region, region) {
			return toResult(loc, 1), nil
		}
	}
	return domain.GeocodingResult{}, nil
}

// ReverseGeocode returns the nearest locality within the configured radius.
// Confidence falls linearly from 1 at the locality to 0 at the radius.
func (g *Gazetteer) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeocodingResult{}, err
	}
	best, bestKm := -1, math.Inf(1)
	for i, loc := range g.localities {
		if d := haversineKm(lat, lon, loc.Lat, loc.Lng); d < bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 || bestKm > g.maxDistanceKm {
		return domain.GeocodingResult{}, nil
	}
	return toResult(g.localities[best], 1-bestKm/g.maxDistanceKm), nil
}

func toResult(loc Locality, confidence float64) domain.GeocodingResult {
	addr := loc.Name
	if loc.Region != "" {
		addr += ", " + loc.Region
	}
	return domain.GeocodingResult{
		Lat:              loc.Lat,
		Lon:              loc.Lng,
		FormattedAddress: addr,
		PlaceName:        loc.Name,
		Region:           loc.Region,
		Confidence:       confidence,
	}
}

func nameKey(name, region string) string {
	return strings.ToUpper(name) + "|" + strings.ToUpper(region)
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
