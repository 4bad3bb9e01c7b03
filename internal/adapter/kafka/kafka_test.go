package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/pluscode-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"lat":"37.4220","lon":"-122.0841"}`),
		Topic:     "raw-location-reports",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("collector")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"lat":"37.4220","lon":"-122.0841"}`, string(raw.Value))
	assert.Equal(t, "raw-location-reports", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "collector", raw.Headers["source"])
	assert.Nil(t, raw.Commit, "commit is attached by the reader")
}

func TestToMessage(t *testing.T) {
	processed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	out, err := domain.SerializeLocationEvent(domain.LocationEvent{
		ID:          "loc-1",
		PlusCode:    "849VCWC8+R9",
		GeoSource:   domain.GeoSourceReverse,
		ProcessedAt: processed,
	})
	require.NoError(t, err)

	msg := toMessage(out)

	assert.Equal(t, []byte("loc-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"plus_code":"849VCWC8+R9"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "geo_source", msg.Headers[0].Key)
	assert.Equal(t, []byte("reverse"), msg.Headers[0].Value)
	assert.Equal(t, "plus_code", msg.Headers[1].Key)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[2].Value)
}
