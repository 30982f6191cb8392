package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carola178/storefront-service-go/internal/order"
)

func sampleOrder() *order.Order {
	return &order.Order{
		ID:          "ORD-" + uuid.NewString(),
		Buyer:       order.Buyer{Name: "Carola", Email: "carola@example.com", Address: "Calle Falsa 123"},
		TotalAmount: 25.50,
		CreatedAt:   time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Items: []order.Item{
			{ProductID: 1, Size: "M", Qty: 1, Price: 10.00},
			{ProductID: 2, Size: "S", Qty: 2, Price: 7.75},
		},
	}
}

func TestBuildOrderPlacedEnvelope(t *testing.T) {
	o := sampleOrder()

	env := BuildOrderPlacedEnvelope(o, 42, EnvelopeMetadata{
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		CausationID:   "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
	})

	require.NoError(t, env.Validate(OrderPlacedEventName, OrderPlacedEventVersion))

	assert.Equal(t, o.ID, env.PartitionKey)
	assert.Equal(t, "storefront-service", env.Producer)
	assert.Equal(t, "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.CorrelationID)
	assert.Equal(t, "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.CausationID)
	require.NotNil(t, env.Sequence)
	assert.Equal(t, int64(42), *env.Sequence)

	assert.Equal(t, o.ID, env.Payload.OrderID)
	assert.Equal(t, o.Buyer.Name, env.Payload.BuyerName)
	assert.Equal(t, o.TotalAmount, env.Payload.TotalAmount)
	assert.Equal(t, o.CreatedAt, env.Payload.Timestamp)
	require.Len(t, env.Payload.Items, 2)
	assert.Equal(t, 1, env.Payload.Items[0].ProductID)
	assert.Equal(t, 2, env.Payload.Items[1].Qty)
}

func TestBuildOrderPlacedEnvelope_GeneratesCorrelationID(t *testing.T) {
	env := BuildOrderPlacedEnvelope(sampleOrder(), 1, EnvelopeMetadata{})

	require.NotEmpty(t, env.CorrelationID)
	_, err := uuid.Parse(env.CorrelationID)
	require.NoError(t, err)
	_, err = uuid.Parse(env.EventID)
	require.NoError(t, err)
}

func TestEnvelopeValidate(t *testing.T) {
	env := BuildOrderPlacedEnvelope(sampleOrder(), 1, EnvelopeMetadata{})

	require.NoError(t, env.Validate(OrderPlacedEventName, OrderPlacedEventVersion))

	wrongName := env
	wrongName.EventName = "WrongEvent"
	require.Error(t, wrongName.Validate(OrderPlacedEventName, OrderPlacedEventVersion))

	wrongVersion := env
	wrongVersion.EventVersion = 2
	require.Error(t, wrongVersion.Validate(OrderPlacedEventName, OrderPlacedEventVersion))

	noPartition := env
	noPartition.PartitionKey = ""
	require.Error(t, noPartition.Validate(OrderPlacedEventName, OrderPlacedEventVersion))
}

func TestOrderPlacedEnvelopeWireShape(t *testing.T) {
	env := BuildOrderPlacedEnvelope(sampleOrder(), 7, EnvelopeMetadata{})

	body, err := json.Marshal(env)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(body, &asMap))

	for _, field := range []string{
		"eventName", "eventVersion", "eventId", "producer",
		"partitionKey", "sequence", "occurredAt", "schema", "payload",
	} {
		require.Contains(t, asMap, field)
	}

	payload, ok := asMap["payload"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"orderId", "buyerName", "buyerEmail", "items", "totalAmount", "timestamp"} {
		require.Contains(t, payload, field)
	}
}
