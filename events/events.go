package events

import (
	"context"
	"sync"

	"picktrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePickSettled    EventType = "pick_settled"
	EventTypePickUnsettled  EventType = "pick_unsettled"
	EventTypeBankrollChange EventType = "bankroll_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PickSettledEvent represents a pick that was graded to a terminal status
type PickSettledEvent struct {
	PickID    uuid.UUID
	Market    models.Market
	Status    models.PickStatus
	Detail    string
	HomeScore int
	AwayScore int
}

func (e PickSettledEvent) Type() EventType {
	return EventTypePickSettled
}

// PickUnsettledEvent represents a settled pick being reset to pending
type PickUnsettledEvent struct {
	PickID         uuid.UUID
	PreviousStatus models.PickStatus
}

func (e PickUnsettledEvent) Type() EventType {
	return EventTypePickUnsettled
}

// BankrollChangeEvent represents a ledger row being written
type BankrollChangeEvent struct {
	TransactionType models.TransactionType
	Amount          decimal.Decimal
	PickID          *uuid.UUID
}

func (e BankrollChangeEvent) Type() EventType {
	return EventTypeBankrollChange
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking settlement
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and flushes
// them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit; uses a
// background context so handlers outlive the transaction context.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
