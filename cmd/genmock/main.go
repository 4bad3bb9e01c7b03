// Command genmock generates location report fixtures around the localities of
// a gazetteer file. Reports alternate between coordinates, full codes and
// short codes relative to their locality. It runs the real transformer so the
// enriched fixture matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -gazetteer internal/adapter/gazetteer/testdata/localities.toml \
//	  -raw-out data/mock/location_reports.json \
//	  -enriched-out data/mock/location_reports_enriched.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/pluscode-etl/internal/adapter/gazetteer"
	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/couchcryptid/pluscode-etl/internal/pipeline"
	"github.com/couchcryptid/pluscode-etl/pkg/olc"
	"github.com/jonboulle/clockwork"
)

// Reports are scattered up to this many degrees from their locality.
const jitterDegrees = 0.05

var processedAt = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	gazPath := flag.String("gazetteer", "", "TOML gazetteer with seed localities")
	perLocality := flag.Int("n", 6, "reports per locality")
	seed := flag.Uint64("seed", 1, "random seed")
	maxKm := flag.Float64("max-distance-km", 50, "reverse geocoding radius")
	rawOut := flag.String("raw-out", "", "output path for raw report JSON")
	enrichedOut := flag.String("enriched-out", "", "output path for enriched event JSON")
	flag.Parse()

	if *gazPath == "" || *rawOut == "" || *enrichedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -gazetteer, -raw-out, -enriched-out")
	}

	g, err := gazetteer.Load(*gazPath, *maxKm)
	if err != nil {
		return err
	}

	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(processedAt))
	defer domain.SetClock(nil)

	records, err := generate(g.Localities(), *perLocality, *seed)
	if err != nil {
		return err
	}
	events, err := enrich(records, g)
	if err != nil {
		return err
	}
	log.Printf("generated %d reports from %d localities", len(records), g.Len())

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*enrichedOut, events); err != nil {
		return fmt.Errorf("writing enriched fixture: %w", err)
	}
	log.Printf("wrote enriched fixture: %s", *enrichedOut)

	printStats(events)
	return nil
}

// generate builds n reports per locality. The same seed always yields the
// same records.
func generate(locs []gazetteer.Locality, n int, seed uint64) ([]domain.RawLocationRecord, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]domain.RawLocationRecord, 0, len(locs)*n)

	for _, loc := range locs {
		for j := range n {
			lat := loc.Lat + (rng.Float64()*2-1)*jitterDegrees
			lng := loc.Lng + (rng.Float64()*2-1)*jitterDegrees
			rec := domain.RawLocationRecord{ID: slug(loc) + "-" + strconv.Itoa(j+1)}

			switch j % 3 {
			case 0:
				rec.Lat = strconv.FormatFloat(lat, 'f', 6, 64)
				rec.Lon = strconv.FormatFloat(lng, 'f', 6, 64)
			case 1:
				code, err := olc.Encode(lat, lng, olc.DefaultCodeLength+j%2)
				if err != nil {
					return nil, fmt.Errorf("encode %s: %w", rec.ID, err)
				}
				rec.Code = code
			case 2:
				code, err := olc.EncodeDefault(lat, lng)
				if err != nil {
					return nil, fmt.Errorf("encode %s: %w", rec.ID, err)
				}
				short, err := olc.Shorten(code, loc.Lat, loc.Lng)
				if err != nil {
					// Too far from the locality centre, keep the full code.
					rec.Code = code
					break
				}
				rec.Code = short
				rec.Locality = loc.Name
				rec.Region = loc.Region
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func enrich(records []domain.RawLocationRecord, geocoder domain.Geocoder) ([]domain.LocationEvent, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transformer := pipeline.NewTransformer(geocoder, olc.DefaultCodeLength, nil, logger)

	events := make([]domain.LocationEvent, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", rec.ID, err)
		}
		event, err := transformer.Enrich(context.Background(), domain.RawEvent{Key: []byte(rec.ID), Value: payload})
		if err != nil {
			return nil, fmt.Errorf("enrich %s: %w", rec.ID, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func slug(loc gazetteer.Locality) string {
	s := strings.ToLower(loc.Name)
	if loc.Region != "" {
		s += "-" + strings.ToLower(loc.Region)
	}
	return strings.ReplaceAll(s, " ", "-")
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(events []domain.LocationEvent) {
	sources := map[string]int{}
	var shortened int
	for i := range events {
		sources[events[i].GeoSource]++
		if events[i].ShortCode != "" {
			shortened++
		}
	}

	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))
	fmt.Printf("With short code: %d\n", shortened)
	fmt.Print("By geo source:")
	for _, k := range keys {
		fmt.Printf(" %s=%d", k, sources[k])
	}
	fmt.Println()
	if len(events) > 0 {
		fmt.Printf("First event: %s (%s)\n", events[0].ID, events[0].Display())
	}
}
