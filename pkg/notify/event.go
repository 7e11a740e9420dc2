package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderCreated        EventType = "order.created"
	EventOrderStatusChanged  EventType = "order.status_changed"
	EventPaymentStatusChange EventType = "order.payment_status_changed"
	EventLowStock            EventType = "inventory.low_stock"
	EventCommissionApproved  EventType = "commission.approved"
	EventCommissionPaid      EventType = "commission.paid"
)

// Event 下游通知，只带定位所需的最少字段
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OrderID    uint64          `json:"order_id,omitempty"`
	OrderSn    string          `json:"order_sn,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	UserID     uint64          `json:"user_id,omitempty"`
	ProductID  uint64          `json:"product_id,omitempty"`
	Data       map[string]any  `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(t EventType) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now(),
	}
}

// Key 分区键，有订单号时按订单聚合
func (e Event) Key() string {
	if e.OrderSn != "" {
		return e.OrderSn
	}
	return e.ID
}

type bufferKey struct{}

type buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *buffer) add(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

func (b *buffer) drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Record 把事件挂到当前工作单元上，提交成功后才会投递
func Record(ctx context.Context, e Event) bool {
	b, ok := ctx.Value(bufferKey{}).(*buffer)
	if !ok {
		return false
	}
	b.add(e)
	return true
}
