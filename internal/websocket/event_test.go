package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinesEntityAndType(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		eventType string
		entity    EntityType
	}{
		{"account created", AccountUpserted(true, nil), "account.created", EntityTypeAccount},
		{"account updated", AccountUpserted(false, nil), "account.updated", EntityTypeAccount},
		{"account deleted", AccountDeleted(nil), "account.deleted", EntityTypeAccount},
		{"transaction created", TransactionCreated(nil), "transaction.created", EntityTypeTransaction},
		{"transaction updated", TransactionUpdated(nil), "transaction.updated", EntityTypeTransaction},
		{"transaction deleted", TransactionDeleted(nil), "transaction.deleted", EntityTypeTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eventType, tt.event.Type)
			assert.Equal(t, tt.entity, tt.event.Entity)
			assert.False(t, tt.event.Timestamp.IsZero())
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	event := TransactionCreated(map[string]string{"id": "t1", "note": "Lunch"})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.created", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "t1", payload["id"])

	ts, err := time.Parse(time.RFC3339, decoded["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}
