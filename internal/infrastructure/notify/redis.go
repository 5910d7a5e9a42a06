// Package notify publishes stock and audit events to a Redis channel.
// Publishing is best effort: a failed publish is logged and dropped so it can
// never undo a committed mutation.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/config"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

var _ stock.Notifier = (*RedisPublisher)(nil)
var _ audit.Notifier = (*RedisPublisher)(nil)

const publishTimeout = 2 * time.Second

// RedisPublisher emits JSON events over Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisPublisher{client: client, channel: cfg.Channel, log: log}, nil
}

// Close releases the underlying connection pool.
func (p *RedisPublisher) Close() error { return p.client.Close() }

type event struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type movementPayload struct {
	TransactionID string `json:"transaction_id"`
	Number        string `json:"number"`
	Type          string `json:"type"`
	ItemID        string `json:"item_id"`
	Condition     string `json:"condition,omitempty"`
	Quantity      string `json:"quantity"`
	QuantityAfter string `json:"quantity_after"`
}

type lowStockPayload struct {
	ItemID      string `json:"item_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	MinQuantity string `json:"min_quantity"`
}

type auditCompletedPayload struct {
	AuditID       string `json:"audit_id"`
	Number        string `json:"number"`
	TotalItems    int    `json:"total_items"`
	ItemsChecked  int    `json:"items_checked"`
	ItemsWithDiff int    `json:"items_with_diff"`
	TotalSurplus  string `json:"total_surplus"`
	TotalShortage string `json:"total_shortage"`
}

// StockMovement implements stock.Notifier.
func (p *RedisPublisher) StockMovement(ctx context.Context, txn *entity.Transaction) {
	p.publish(ctx, event{
		Kind:       "stock.movement",
		OccurredAt: time.Now().UTC(),
		Payload: movementPayload{
			TransactionID: txn.ID,
			Number:        txn.Number,
			Type:          string(txn.Type),
			ItemID:        txn.ItemID,
			Condition:     string(txn.Condition),
			Quantity:      txn.Quantity.String(),
			QuantityAfter: txn.QuantityAfter.String(),
		},
	})
}

// LowStock implements stock.Notifier.
func (p *RedisPublisher) LowStock(ctx context.Context, item *entity.Item) {
	p.publish(ctx, event{
		Kind:       "stock.low",
		OccurredAt: time.Now().UTC(),
		Payload: lowStockPayload{
			ItemID:      item.ID,
			Code:        item.Code,
			Name:        item.Name,
			Quantity:    item.Quantity.String(),
			MinQuantity: item.MinQuantity.String(),
		},
	})
}

// AuditCompleted implements audit.Notifier.
func (p *RedisPublisher) AuditCompleted(ctx context.Context, a *entity.Audit) {
	p.publish(ctx, event{
		Kind:       "audit.completed",
		OccurredAt: time.Now().UTC(),
		Payload: auditCompletedPayload{
			AuditID:       a.ID,
			Number:        a.Number,
			TotalItems:    a.TotalItems,
			ItemsChecked:  a.ItemsChecked,
			ItemsWithDiff: a.ItemsWithDiff,
			TotalSurplus:  a.TotalSurplus.String(),
			TotalShortage: a.TotalShortage.String(),
		},
	})
}

func (p *RedisPublisher) publish(ctx context.Context, ev event) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("kind", ev.Kind).Msg("marshal event")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		p.log.Error().Err(err).Str("kind", ev.Kind).Msg("publish event")
	}
}
