package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	orderCompletedEventName    = "OrderCompleted"
	orderCompletedEventVersion = 1
)

// OrderCompletedPayload is the v1 payload published by the payment service
// once an order is paid and fulfilled.
type OrderCompletedPayload struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCompletedEnvelope is the enveloped event structure.
type OrderCompletedEnvelope = EventEnvelope[OrderCompletedPayload]

// OrderCompleted is the pre-envelope message shape still emitted by older
// producers.
type OrderCompleted struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// ParseOrderCompleted accepts either the enveloped or the legacy message
// shape. Legacy messages carry no sequence, so the returned sequence is nil
// and dedup checkpointing is skipped for them.
func ParseOrderCompleted(body []byte) (orderID string, seq *int64, err error) {
	var env OrderCompletedEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.EventName != "" {
		if err := env.Validate(orderCompletedEventName, orderCompletedEventVersion); err != nil {
			return "", nil, err
		}
		if env.Payload.OrderID == "" {
			return "", nil, fmt.Errorf("missing payload orderId")
		}
		return env.Payload.OrderID, env.Sequence, nil
	}

	var legacy OrderCompleted
	if err := json.Unmarshal(body, &legacy); err != nil {
		return "", nil, fmt.Errorf("unmarshal OrderCompleted: %w", err)
	}
	if legacy.OrderID == "" {
		return "", nil, fmt.Errorf("missing orderId")
	}
	return legacy.OrderID, nil, nil
}
