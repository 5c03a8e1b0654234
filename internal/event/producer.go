package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	pkgkafka "github.com/khangtong/tkt-phone-shop-sub000/pkg/kafka"
)

// Kafka topic constants for order line domain events.
const (
	TopicLineCreated = "phoneshop.orderline.created"
	TopicLineUpdated = "phoneshop.orderline.updated"
	TopicLineDeleted = "phoneshop.orderline.deleted"
)

// Aggregate type constant. Events are keyed by order ID so every change to
// one order lands on the same partition in order.
const AggregateTypeOrder = "order"

// Source identifier for events originating from this service.
const SourceOrderLineService = "orderline-service"

// LineCreatedData is the payload for an orderline.created event.
type LineCreatedData struct {
	LineID             string `json:"line_id"`
	OrderID            string `json:"order_id"`
	ProductID          string `json:"product_id"`
	VariantID          string `json:"variant_id"`
	Quantity           int    `json:"quantity"`
	PriceAtPurchase    int64  `json:"price_at_purchase"`
	DiscountAtPurchase int64  `json:"discount_at_purchase"`
	OrderTotal         int64  `json:"order_total"`
}

// LineUpdatedData is the payload for an orderline.updated event.
type LineUpdatedData struct {
	LineID      string `json:"line_id"`
	OrderID     string `json:"order_id"`
	VariantID   string `json:"variant_id"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
	OrderTotal  int64  `json:"order_total"`
}

// LineDeletedData is the payload for an orderline.deleted event.
type LineDeletedData struct {
	LineID     string `json:"line_id"`
	OrderID    string `json:"order_id"`
	VariantID  string `json:"variant_id"`
	Quantity   int    `json:"quantity"`
	OrderTotal int64  `json:"order_total"`
}

// Producer publishes order line domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishLineCreated publishes an orderline.created event.
func (p *Producer) PublishLineCreated(ctx context.Context, line *domain.OrderLine, orderTotal int64) error {
	data := LineCreatedData{
		LineID:             line.ID,
		OrderID:            line.OrderID,
		ProductID:          line.ProductID,
		VariantID:          line.VariantID,
		Quantity:           line.Quantity,
		PriceAtPurchase:    line.PriceAtPurchase,
		DiscountAtPurchase: line.DiscountAtPurchase,
		OrderTotal:         orderTotal,
	}

	event, err := pkgkafka.NewEvent(TopicLineCreated, line.OrderID, AggregateTypeOrder, SourceOrderLineService, data)
	if err != nil {
		return fmt.Errorf("create orderline.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicLineCreated, event); err != nil {
		return fmt.Errorf("publish orderline.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published orderline.created event",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
	)

	return nil
}

// PublishLineUpdated publishes an orderline.updated event.
func (p *Producer) PublishLineUpdated(ctx context.Context, line *domain.OrderLine, oldQuantity int, orderTotal int64) error {
	data := LineUpdatedData{
		LineID:      line.ID,
		OrderID:     line.OrderID,
		VariantID:   line.VariantID,
		OldQuantity: oldQuantity,
		NewQuantity: line.Quantity,
		OrderTotal:  orderTotal,
	}

	event, err := pkgkafka.NewEvent(TopicLineUpdated, line.OrderID, AggregateTypeOrder, SourceOrderLineService, data)
	if err != nil {
		return fmt.Errorf("create orderline.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicLineUpdated, event); err != nil {
		return fmt.Errorf("publish orderline.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published orderline.updated event",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
	)

	return nil
}

// PublishLineDeleted publishes an orderline.deleted event.
func (p *Producer) PublishLineDeleted(ctx context.Context, line *domain.OrderLine, orderTotal int64) error {
	data := LineDeletedData{
		LineID:     line.ID,
		OrderID:    line.OrderID,
		VariantID:  line.VariantID,
		Quantity:   line.Quantity,
		OrderTotal: orderTotal,
	}

	event, err := pkgkafka.NewEvent(TopicLineDeleted, line.OrderID, AggregateTypeOrder, SourceOrderLineService, data)
	if err != nil {
		return fmt.Errorf("create orderline.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicLineDeleted, event); err != nil {
		return fmt.Errorf("publish orderline.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published orderline.deleted event",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
	)

	return nil
}
