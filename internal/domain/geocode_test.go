package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _, _ string) (GeocodingResult, error) {
	m.forwardCalls++
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var mountainView = GeocodingResult{
	Lat:              37.3861,
	Lon:              -122.0839,
	FormattedAddress: "Mountain View, California, United States",
	PlaceName:        "Mountain View",
	Region:           "CA",
	Confidence:       0.9,
}

func encodedEvent(t *testing.T) LocationEvent {
	t.Helper()
	event, err := EnrichLocationEvent(LocationEvent{ID: "evt-1", Geo: &Geo{Lat: 37.4220, Lon: -122.0841}}, 10)
	require.NoError(t, err)
	return event
}

func shortCodeEvent(t *testing.T) LocationEvent {
	t.Helper()
	event, err := EnrichLocationEvent(LocationEvent{
		ID:        "evt-2",
		InputCode: testShortCode,
		Locality:  Locality{Name: "Mountain View", Region: "CA"},
	}, 10)
	require.NoError(t, err)
	return event
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	event := encodedEvent(t)

	result := EnrichWithGeocoding(context.Background(), event, nil, discardLogger())

	assert.Empty(t, result.GeoSource)
	assert.Empty(t, result.ShortCode)
	assert.Equal(t, event, result)
}

func TestEnrichWithGeocoding_ReverseShortensAgainstLocality(t *testing.T) {
	geo := &mockGeocoder{reverseResult: mountainView}

	result := EnrichWithGeocoding(context.Background(), encodedEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceReverse, result.GeoSource)
	assert.Equal(t, testShortCode, result.ShortCode)
	assert.Equal(t, Locality{Name: "Mountain View", Region: "CA"}, result.Locality)
	assert.Equal(t, "CWC8+R9 Mountain View, CA", result.Display())
	assert.Equal(t, "Mountain View, California, United States", result.FormattedAddress)
	assert.Equal(t, 0.9, result.GeoConfidence)
	assert.Equal(t, testGoogleplexCode, result.PlusCode, "full code unchanged")
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ReverseTooFarToShorten(t *testing.T) {
	geo := &mockGeocoder{reverseResult: GeocodingResult{
		Lat:       37.7749,
		Lon:       -122.4194,
		PlaceName: "San Francisco",
		Region:    "CA",
	}}

	result := EnrichWithGeocoding(context.Background(), encodedEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceReverse, result.GeoSource)
	assert.Equal(t, "San Francisco", result.PlaceName)
	assert.Empty(t, result.ShortCode)
	assert.Empty(t, result.Locality.Name)
	assert.Equal(t, testGoogleplexCode, result.Display())
}

func TestEnrichWithGeocoding_ReverseEmptyResult(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), encodedEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceOriginal, result.GeoSource)
	assert.Empty(t, result.ShortCode)
}

func TestEnrichWithGeocoding_ReverseError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("API timeout")}
	event := encodedEvent(t)

	result := EnrichWithGeocoding(context.Background(), event, geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Equal(t, event.PlusCode, result.PlusCode)
	assert.Equal(t, event.Geo, result.Geo)
}

func TestEnrichWithGeocoding_ForwardRecoversFullCode(t *testing.T) {
	geo := &mockGeocoder{forwardResult: mountainView}

	result := EnrichWithGeocoding(context.Background(), shortCodeEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceForward, result.GeoSource)
	assert.Equal(t, testGoogleplexCode, result.PlusCode)
	assert.Equal(t, testShortCode, result.ShortCode)
	require.NotNil(t, result.Geo)
	assert.InDelta(t, 37.4220625, result.Geo.Lat, 1e-9)
	assert.InDelta(t, -122.0840625, result.Geo.Lon, 1e-9)
	require.NotNil(t, result.Area)
	assert.InDelta(t, 37.422, result.Area.South, 1e-9)
	assert.Equal(t, "Mountain View", result.PlaceName)
	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ForwardError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("connection refused")}

	result := EnrichWithGeocoding(context.Background(), shortCodeEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Nil(t, result.Geo)
	assert.Empty(t, result.PlusCode)
	assert.Equal(t, testShortCode, result.ShortCode)
}

func TestEnrichWithGeocoding_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), shortCodeEvent(t), geo, discardLogger())

	assert.Equal(t, GeoSourceOriginal, result.GeoSource)
	assert.Nil(t, result.Geo)
}

func TestEnrichWithGeocoding_CoordsPreferredOverForward(t *testing.T) {
	geo := &mockGeocoder{reverseResult: mountainView, forwardResult: mountainView}
	event := encodedEvent(t)
	event.Locality = Locality{Name: "Somewhere Else"}

	result := EnrichWithGeocoding(context.Background(), event, geo, discardLogger())

	assert.Equal(t, GeoSourceReverse, result.GeoSource)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestEnrichWithGeocoding_NothingToGeocode(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), LocationEvent{ID: "evt-3"}, geo, discardLogger())

	assert.Equal(t, GeoSourceOriginal, result.GeoSource)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}
