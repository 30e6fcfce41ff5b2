package dispatcher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/logging"
	"github.com/airlight/airquality-mgmt/internal/pkg/infrastructure/metrics"
	"github.com/airlight/airquality-mgmt/pkg/types"
)

// TopicAll receives every published event regardless of sensor.
const TopicAll = "*"

// Envelope is the JSON frame delivered to connected observers.
type Envelope struct {
	Event     string    `json:"event"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// ConnectionStats describes the current observer population.
type ConnectionStats struct {
	Connected int            `json:"connected"`
	ByTopic   map[string]int `json:"byTopic"`
}

// Dispatcher fans out alert, resolution, reading and stats events to
// connected websocket observers. Observers subscribe per topic; the
// wildcard topic receives everything.
type Dispatcher struct {
	statsInterval time.Duration

	mu        sync.RWMutex
	observers map[*observer]struct{}

	statsFn func(context.Context) types.SystemStats
}

type Option func(*Dispatcher)

// WithStatsSource sets the callback used to build the periodic stats
// broadcast payload.
func WithStatsSource(fn func(context.Context) types.SystemStats) Option {
	return func(d *Dispatcher) {
		d.statsFn = fn
	}
}

func WithStatsInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		d.statsInterval = interval
	}
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		statsInterval: 30 * time.Second,
		observers:     make(map[*observer]struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run blocks until ctx is cancelled, broadcasting connection stats on the
// configured interval, then closes all active connections.
func (d *Dispatcher) Run(ctx context.Context) {
	t := time.NewTicker(d.statsInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			d.closeAll()
			return
		case <-t.C:
			if d.statsFn != nil {
				d.PublishStats(ctx, d.statsFn(ctx))
			}
		}
	}
}

// PublishAlert delivers a new alert to wildcard observers and to observers
// of the alert's sensor topic.
func (d *Dispatcher) PublishAlert(ctx context.Context, alert types.Alert) {
	evt := types.NewAlert{
		ID:        alert.ID,
		SensorID:  alert.SensorID,
		AlertType: alert.AlertType,
		Severity:  alert.Severity.String(),
		Message:   alert.Message,
		Data:      alert.Data,
		CreatedAt: alert.CreatedAt,
	}
	d.publish(ctx, evt.EventName(), evt.TopicName(), evt)
}

// PublishResolution delivers an alert resolution event.
func (d *Dispatcher) PublishResolution(ctx context.Context, alert types.Alert) {
	evt := types.AlertResolved{AlertID: alert.ID, ResolvedBy: alert.ResolvedBy}
	if alert.ResolvedAt != nil {
		evt.ResolvedAt = *alert.ResolvedAt
	}
	d.publish(ctx, evt.EventName(), evt.TopicName(), evt)
}

// PublishReading delivers an accepted sensor reading to observers of the
// sensor's topic.
func (d *Dispatcher) PublishReading(ctx context.Context, reading types.SensorReading) {
	evt := types.ReadingReceived{Reading: reading}
	d.publish(ctx, evt.EventName(), evt.TopicName(), evt)
}

// PublishStats delivers a system stats snapshot to wildcard observers.
func (d *Dispatcher) PublishStats(ctx context.Context, stats types.SystemStats) {
	stats.Observers = d.Stats().Connected
	if stats.Timestamp.IsZero() {
		stats.Timestamp = time.Now().UTC()
	}
	d.publish(ctx, stats.EventName(), stats.TopicName(), stats)
}

// Stats returns the current observer population grouped by topic.
func (d *Dispatcher) Stats() ConnectionStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := ConnectionStats{
		Connected: len(d.observers),
		ByTopic:   map[string]int{},
	}

	for o := range d.observers {
		for _, topic := range o.topics() {
			s.ByTopic[topic]++
		}
	}

	return s
}

func (d *Dispatcher) publish(ctx context.Context, event, topic string, data any) {
	log := logging.GetLoggerFromContext(ctx)

	payload, err := json.Marshal(Envelope{
		Event:     event,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event envelope")
		return
	}

	d.mu.RLock()
	targets := make([]*observer, 0, len(d.observers))
	for o := range d.observers {
		if o.subscribedTo(topic) {
			targets = append(targets, o)
		}
	}
	d.mu.RUnlock()

	for _, o := range targets {
		select {
		case o.send <- payload:
		default:
			// Observer's outgoing buffer is full. Disconnect it rather
			// than let one slow consumer stall the rest.
			log.Warn().Msg("dropping slow observer")
			d.unregister(o)
		}
	}

	metrics.EventsPublishedTotal.WithLabelValues(event).Inc()
}

func (d *Dispatcher) register(o *observer) {
	d.mu.Lock()
	d.observers[o] = struct{}{}
	d.mu.Unlock()
	metrics.ConnectedObservers.Inc()
}

func (d *Dispatcher) unregister(o *observer) {
	d.mu.Lock()
	if _, ok := d.observers[o]; ok {
		delete(d.observers, o)
		o.close()
		metrics.ConnectedObservers.Dec()
	}
	d.mu.Unlock()
}

func (d *Dispatcher) closeAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for o := range d.observers {
		o.close()
		delete(d.observers, o)
		metrics.ConnectedObservers.Dec()
	}
}
