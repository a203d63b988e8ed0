package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bichitomultihogar/elcausa/internal/checkout"
	"github.com/bichitomultihogar/elcausa/internal/domain"
	pkgkafka "github.com/bichitomultihogar/elcausa/pkg/kafka"
	"github.com/bichitomultihogar/elcausa/pkg/logger"
)

// Kafka topics for storefront events.
var (
	TopicCartUpdated      = pkgkafka.Topic("cart", "updated")
	TopicCartCleared      = pkgkafka.Topic("cart", "cleared")
	TopicFavoritesUpdated = pkgkafka.Topic("favorites", "updated")
	TopicOrderDispatched  = pkgkafka.Topic("order", "dispatched")
)

// Aggregate types. Every aggregate id is the shopper session id.
const (
	AggregateTypeCart      = "cart"
	AggregateTypeFavorites = "favorites"
	AggregateTypeOrder     = "order"
)

// Source identifies events emitted by the storefront.
const Source = "elcausa-storefront"

// Publisher is the transport the producer writes envelopes to.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	Totals    domain.Totals  `json:"totals"`
}

// CartItemData is the item payload within cart and order events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// FavoritesUpdatedData is the payload for a favorites.updated event.
type FavoritesUpdatedData struct {
	SessionID  string   `json:"session_id"`
	ProductIDs []string `json:"product_ids"`
}

// OrderDispatchedData is the payload for an order.dispatched event.
// Customer contact details stay out of the event stream.
type OrderDispatchedData struct {
	SessionID     string               `json:"session_id"`
	Reference     string               `json:"reference"`
	Items         []CartItemData       `json:"items"`
	Totals        domain.Totals        `json:"totals"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// Producer publishes storefront domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

func itemData(items []domain.CartItem) []CartItemData {
	out := make([]CartItemData, len(items))
	for i, item := range items {
		out[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}
	return out
}

func (p *Producer) publish(ctx context.Context, topic, sessionID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, sessionID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("session_id", sessionID),
	)
	return nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items []domain.CartItem, totals domain.Totals) error {
	return p.publish(ctx, TopicCartUpdated, sessionID, AggregateTypeCart, CartUpdatedData{
		SessionID: sessionID,
		Items:     itemData(items),
		Totals:    totals,
	})
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicCartCleared, sessionID, AggregateTypeCart, CartClearedData{SessionID: sessionID})
}

// PublishFavoritesUpdated publishes a favorites.updated event.
func (p *Producer) PublishFavoritesUpdated(ctx context.Context, sessionID string, ids []string) error {
	return p.publish(ctx, TopicFavoritesUpdated, sessionID, AggregateTypeFavorites, FavoritesUpdatedData{
		SessionID:  sessionID,
		ProductIDs: ids,
	})
}

// PublishOrderDispatched publishes an order.dispatched event.
func (p *Producer) PublishOrderDispatched(ctx context.Context, sessionID string, res *checkout.Result) error {
	return p.publish(ctx, TopicOrderDispatched, sessionID, AggregateTypeOrder, OrderDispatchedData{
		SessionID:     sessionID,
		Reference:     res.Reference,
		Items:         itemData(res.Items),
		Totals:        res.Totals,
		PaymentMethod: res.PaymentMethod,
	})
}
