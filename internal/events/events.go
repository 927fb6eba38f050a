package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/config"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/logger"
	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/models"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	FLEET_CHANNEL  Channel = "fleet"
	ALERTS_CHANNEL Channel = "alerts"
)

type MessageType string

const (
	PING             MessageType = "ping"
	PONG             MessageType = "pong"
	ERROR            MessageType = "error"
	RESOURCE_CHANGED MessageType = "resource_changed"
	ALERT_CREATED    MessageType = "alert_created"
	ALERT_RESOLVED   MessageType = "alert_resolved"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type EventBus struct {
	client   valkey.Client
	logger   logger.Logger
	config   config.Config
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client valkey.Client, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		config:   config,
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	// Without a valkey client the bus runs in-process only.
	if eb.client == nil {
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel",
			channel,
			"eventID",
			event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)

	// Also notify local handlers
	eb.notifyLocalHandlers(channel, event)

	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	// Start listening to this channel if it's the first handler. In-process
	// buses have no valkey subscription to drive.
	if eb.client != nil {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers, exists := eb.handlers[channel]
	eb.mutex.RUnlock()

	if !exists || len(handlers) == 0 {
		return
	}

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel",
					channel,
					"eventID",
					event.ID,
					"handlerIndex",
					handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel, "message", msg.Message)
				return
			}

			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}

// PublishResourceChanged signals list and snapshot consumers that a fleet
// resource was created, updated, or deleted.
func (eb *EventBus) PublishResourceChanged(resourceType string, resourceID string, action string) error {
	return eb.Publish(FLEET_CHANNEL, Event{
		Type: RESOURCE_CHANGED,
		Data: map[string]any{
			"resourceType": resourceType,
			"resourceId":   resourceID,
			"action":       action,
		},
	})
}

func (eb *EventBus) PublishAlertCreated(alert *models.Alert) error {
	data := map[string]any{
		"alertId":  alert.ID.String(),
		"title":    alert.Title,
		"message":  alert.Message,
		"category": string(alert.Category),
		"severity": string(alert.Severity),
	}
	if alert.CycleID != nil {
		data["cycleId"] = alert.CycleID.String()
	}
	if alert.PartID != nil {
		data["partId"] = alert.PartID.String()
	}

	return eb.Publish(ALERTS_CHANNEL, Event{
		Type: ALERT_CREATED,
		Data: data,
	})
}

func (eb *EventBus) PublishAlertResolved(alertID uuid.UUID, resolvedBy string) error {
	return eb.Publish(ALERTS_CHANNEL, Event{
		Type: ALERT_RESOLVED,
		Data: map[string]any{
			"alertId":    alertID.String(),
			"resolvedBy": resolvedBy,
		},
	})
}
