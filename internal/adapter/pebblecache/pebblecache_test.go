package pebblecache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/couchcryptid/pluscode-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (c *countingGeocoder) ForwardGeocode(_ context.Context, _, _ string) (domain.GeocodingResult, error) {
	c.calls++
	return c.result, c.err
}

func (c *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	c.calls++
	return c.result, c.err
}

var zurich = domain.GeocodingResult{
	Lat:              47.3769,
	Lon:              8.5417,
	PlaceName:        "Zurich",
	Region:           "ZH",
	FormattedAddress: "Zurich, ZH",
	Confidence:       1,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T, dir string, inner domain.Geocoder, m *observability.Metrics) *Store {
	t.Helper()
	s, err := Open(dir, inner, m, discardLogger())
	require.NoError(t, err)
	return s
}

func TestStore_ForwardHit(t *testing.T) {
	inner := &countingGeocoder{result: zurich}
	m := observability.NewMetricsForTesting()
	s := openStore(t, t.TempDir(), inner, m)
	defer s.Close()

	r1, err := s.ForwardGeocode(context.Background(), "Zurich", "ZH")
	require.NoError(t, err)
	r2, err := s.ForwardGeocode(context.Background(), "zurich", "zh")
	require.NoError(t, err)

	assert.Equal(t, zurich, r1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("forward", "disk_hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("forward", "disk_miss")), 0)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first := &countingGeocoder{result: zurich}
	s := openStore(t, dir, first, nil)
	_, err := s.ReverseGeocode(context.Background(), 47.3769, 8.5417)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	second := &countingGeocoder{}
	s = openStore(t, dir, second, nil)
	defer s.Close()

	r, err := s.ReverseGeocode(context.Background(), 47.3769, 8.5417)
	require.NoError(t, err)
	assert.Equal(t, zurich, r)
	assert.Zero(t, second.calls)
}

func TestStore_MissesNotStored(t *testing.T) {
	inner := &countingGeocoder{}
	s := openStore(t, t.TempDir(), inner, nil)
	defer s.Close()

	_, _ = s.ForwardGeocode(context.Background(), "Atlantis", "")
	_, _ = s.ForwardGeocode(context.Background(), "Atlantis", "")
	assert.Equal(t, 2, inner.calls)
}

func TestStore_ErrorsPassThrough(t *testing.T) {
	inner := &countingGeocoder{result: zurich, err: errors.New("upstream down")}
	s := openStore(t, t.TempDir(), inner, nil)
	defer s.Close()

	_, err := s.ReverseGeocode(context.Background(), 1, 2)
	require.EqualError(t, err, "upstream down")

	_, closer, err := s.db.Get([]byte("rev:1.000000,2.000000"))
	if closer != nil {
		closer.Close()
	}
	require.ErrorIs(t, err, pebble.ErrNotFound)
}

func TestStore_CorruptEntryRefetched(t *testing.T) {
	inner := &countingGeocoder{result: zurich}
	s := openStore(t, t.TempDir(), inner, nil)
	defer s.Close()

	require.NoError(t, s.db.Set([]byte("fwd:ZURICH|"), []byte("{not json"), pebble.Sync))

	r, err := s.ForwardGeocode(context.Background(), "Zurich", "")
	require.NoError(t, err)
	assert.Equal(t, zurich, r)
	assert.Equal(t, 1, inner.calls)
}
