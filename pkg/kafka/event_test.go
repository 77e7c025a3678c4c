package kafka

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reactionData struct {
	ReviewID string `json:"review_id"`
	Status   string `json:"status"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("review.engagement.updated", "rev-1", "review", "review-service",
		reactionData{ReviewID: "rev-1", Status: "liked"})

	require.NoError(t, err)
	assert.Equal(t, "review.engagement.updated", evt.EventType)
	assert.Equal(t, "rev-1", evt.AggregateID)
	assert.Equal(t, "review", evt.AggregateType)
	assert.Equal(t, "review-service", evt.Source)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())

	_, err = uuid.Parse(evt.EventID)
	assert.NoError(t, err)
}

func TestEvent_UnmarshalData(t *testing.T) {
	evt, err := NewEvent("review.created", "rev-2", "review", "review-service",
		reactionData{ReviewID: "rev-2", Status: "neutral"})
	require.NoError(t, err)

	var got reactionData
	require.NoError(t, evt.UnmarshalData(&got))
	assert.Equal(t, "rev-2", got.ReviewID)
	assert.Equal(t, "neutral", got.Status)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	evt, err := NewEvent("review.deleted", "rev-3", "review", "review-service",
		map[string]string{"company_id": "co-1"})
	require.NoError(t, err)
	evt.WithCorrelationID("corr-7")

	raw, err := evt.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.Equal(t, "corr-7", decoded.CorrelationID)
}

func TestNewEvent_UnencodableData(t *testing.T) {
	_, err := NewEvent("bad", "x", "review", "review-service", make(chan int))
	assert.Error(t, err)
}
