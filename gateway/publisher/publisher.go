package publisher

import (
	"context"

	"github.com/yaron8/microlink/telemetrics"
)

// Origin tells subscribers where a published snapshot came from.
type Origin string

const (
	OriginServed   Origin = "served"
	OriginReceived Origin = "received"
)

// Event is the message published for every snapshot.
type Event struct {
	Origin  Origin                  `json:"origin"`
	Metrics telemetrics.LinkMetrics `json:"metrics"`
}

// Publisher fans snapshots out to subscribers. Nothing is stored.
type Publisher interface {
	Publish(ctx context.Context, origin Origin, metrics telemetrics.LinkMetrics) error
	Close() error
}

// Nop drops every snapshot. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Origin, telemetrics.LinkMetrics) error { return nil }

func (Nop) Close() error { return nil }
