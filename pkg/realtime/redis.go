package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Bus is a cross-instance broadcast channel such as broker.PubSub.
type Bus interface {
	Publish(ctx context.Context, payload []byte) error
	Subscribe(ctx context.Context, fn func([]byte)) error
}

// BusPublisher sends events through the bus so that the instance holding the socket delivers them.
type BusPublisher struct {
	bus Bus
}

func NewBusPublisher(bus Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

func (p *BusPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode realtime event: %w", err)
	}
	return p.bus.Publish(ctx, payload)
}

// Relay forwards every bus message into the local hub until ctx is cancelled.
func Relay(ctx context.Context, bus Bus, hub *Hub) error {
	return bus.Subscribe(ctx, func(payload []byte) {
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			hub.logger.Warn("discarding malformed realtime event", zap.Error(err))
			return
		}
		_ = hub.Publish(ctx, ev)
	})
}
