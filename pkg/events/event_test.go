package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	raw, err := Encode(BaseEvent{
		Type:       "INVOICE_PAID",
		Data:       map[string]interface{}{"invoice_id": "abc", "amount": "29.00"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "INVOICE_PAID", got.EventType())
	assert.Equal(t, "abc", got.Payload()["invoice_id"])
	assert.True(t, got.Timestamp().Equal(at))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)
}
