// Package notifications delivers best-effort events (course created, purchase
// confirmed, rating received) to email, webhook and Kafka sinks. Delivery
// never blocks or fails the request that triggered it.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"kursai/models"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type Kind string

const (
	CourseCreated     Kind = "course.created"
	PurchaseConfirmed Kind = "purchase.confirmed"
	RatingReceived    Kind = "rating.received"
)

// Event is the payload handed to every sink.
type Event struct {
	Kind          Kind      `json:"kind"`
	To            string    `json:"to"`
	ToName        string    `json:"toName,omitempty"`
	CourseID      uint      `json:"courseId"`
	CourseTitle   string    `json:"courseTitle"`
	Price         string    `json:"price,omitempty"`
	HasAttachment bool      `json:"hasAttachment,omitempty"`
	Score         int       `json:"score,omitempty"`
	Review        string    `json:"review,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Sink delivers an event to one channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, evt Event) error
}

// LogStore records delivery attempts.
type LogStore interface {
	CreateNotificationLog(ctx context.Context, entry *models.NotificationLog) error
}

// Dispatcher fans events out to its sinks on a background goroutine.
type Dispatcher struct {
	sinks   []Sink
	logs    LogStore
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. logs may be nil.
func NewDispatcher(log zerolog.Logger, timeout time.Duration, logs LogStore, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sinks:   sinks,
		logs:    logs,
		timeout: timeout,
		log:     log.With().Str("component", "notifications").Logger(),
	}
}

// Notify schedules delivery and returns immediately.
func (d *Dispatcher) Notify(evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Str("kind", string(evt.Kind)).Interface("panic", r).Msg("notification delivery panicked")
			}
		}()
		d.deliver(evt)
	}()
}

// Wait blocks until every scheduled delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	for _, sink := range d.sinks {
		err := sink.Send(ctx, evt)
		if err != nil {
			d.log.Warn().Err(err).
				Str("kind", string(evt.Kind)).
				Str("sink", sink.Name()).
				Str("to", evt.To).
				Msg("notification failed")
		} else {
			d.log.Debug().Str("kind", string(evt.Kind)).Str("sink", sink.Name()).Msg("notification sent")
		}
		d.record(sink.Name(), evt, err)
	}
}

func (d *Dispatcher) record(sink string, evt Event, sendErr error) {
	if d.logs == nil {
		return
	}
	// the delivery context may already be spent
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(evt)
	if err != nil {
		d.log.Warn().Err(err).Msg("encode notification payload")
		return
	}

	entry := &models.NotificationLog{
		Kind:      string(evt.Kind),
		Recipient: evt.To,
		Sink:      sink,
		Status:    models.NotificationSent,
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.Error = truncate(sendErr.Error(), 1000)
	}
	if err := d.logs.CreateNotificationLog(ctx, entry); err != nil {
		d.log.Warn().Err(err).Str("sink", sink).Msg("record notification")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// LogSink only writes the event to the application log. It stands in for email
// when no SendGrid key is configured.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Name() string { return "log" }

func (s LogSink) Send(_ context.Context, evt Event) error {
	s.Log.Info().
		Str("kind", string(evt.Kind)).
		Str("to", evt.To).
		Uint("course_id", evt.CourseID).
		Str("course_title", evt.CourseTitle).
		Msg(fmt.Sprintf("notification %s", evt.Kind))
	return nil
}
