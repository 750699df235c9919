package audit

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/example/storefront/internal/kafka"
	"github.com/example/storefront/internal/orders"
)

// Recorder persists audit entries; satisfied by *Store.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Service consumes order events and writes the audit trail. Deliveries are
// at-least-once; dedup on event_id keeps the trail and counters exact.
type Service struct {
	Store Recorder
	Cache Cache
	Log   *zap.Logger
}

func (s *Service) HandleMessage(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and commit rather than loop forever
		s.Log.Warn("undecodable event dropped", zap.Error(err))
		return nil
	}

	seen, err := s.Cache.Seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderCreated:
		if err := s.handleCreated(ctx, env); err != nil {
			return err
		}
	case orders.EventOrderStatusChanged:
		if err := s.handleStatusChanged(ctx, env); err != nil {
			return err
		}
	default:
		s.Log.Debug("ignoring event", zap.String("type", env.EventType))
		return nil
	}

	return s.Cache.Mark(ctx, env.EventID)
}

func (s *Service) handleCreated(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}
	if err := s.Store.Record(ctx, Entry{
		EventID:    env.EventID,
		EventType:  env.EventType,
		OrderID:    p.OrderID,
		UserID:     p.UserID,
		Payload:    toBSON(env.Payload),
		OccurredAt: env.OccurredAt,
	}); err != nil {
		return err
	}
	for _, it := range p.Items {
		if err := s.Cache.AddSales(ctx, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	return s.Cache.SetOrderStatus(ctx, p.OrderID, string(orders.StatusPending))
}

func (s *Service) handleStatusChanged(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	if err := s.Store.Record(ctx, Entry{
		EventID:    env.EventID,
		EventType:  env.EventType,
		OrderID:    p.OrderID,
		Payload:    toBSON(env.Payload),
		OccurredAt: env.OccurredAt,
	}); err != nil {
		return err
	}
	return s.Cache.SetOrderStatus(ctx, p.OrderID, string(p.To))
}

func toBSON(raw json.RawMessage) bson.M {
	var m bson.M
	if err := json.Unmarshal(raw, &m); err != nil {
		return bson.M{"raw": string(raw)}
	}
	return m
}
