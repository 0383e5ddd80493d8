// Package dispatch delivers webhook events to customer endpoints.
package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"

	"cdr.dev/slog"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the request body,
	// keyed by the webhook secret.
	SignatureHeader = "X-Formbricks-Signature"

	defaultWorkers     = 4
	defaultQueueSize   = 256
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxElapsed  = 2 * time.Minute
)

// Event is the envelope posted to webhook endpoints.
type Event struct {
	WebhookID  uuid.UUID               `json:"webhookId"`
	Event      database.WebhookTrigger `json:"event"`
	OccurredAt time.Time               `json:"occurredAt"`
	Data       interface{}             `json:"data"`
}

// Options configures a Dispatcher. The zero value uses sane defaults.
type Options struct {
	Logger     slog.Logger
	Workers    int
	QueueSize  int
	HTTPClient *http.Client
	// MaxElapsed bounds total retry time per delivery.
	MaxElapsed time.Duration
	Registerer prometheus.Registerer
}

// Dispatcher fans webhook events out to subscribed endpoints with
// retries. It never blocks the caller on network I/O.
type Dispatcher struct {
	db         database.Store
	log        slog.Logger
	client     *http.Client
	maxElapsed time.Duration

	queue chan delivery
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	deliveries *prometheus.CounterVec
	latency    prometheus.Histogram
	dropped    prometheus.Counter
}

type delivery struct {
	webhook database.Webhook
	event   Event
}

// New starts the worker pool. Close must be called to drain it.
func New(db database.Store, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = defaultMaxElapsed
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}

	d := &Dispatcher{
		db:         db,
		log:        opts.Logger,
		client:     opts.HTTPClient,
		maxElapsed: opts.MaxElapsed,
		queue:      make(chan delivery, opts.QueueSize),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formbricks",
			Subsystem: "dispatch",
			Name:      "deliveries_total",
			Help:      "Webhook delivery attempts by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "formbricks",
			Subsystem: "dispatch",
			Name:      "delivery_seconds",
			Help:      "End-to-end webhook delivery latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "formbricks",
			Subsystem: "dispatch",
			Name:      "dropped_total",
			Help:      "Events dropped because the queue was full or closed.",
		}),
	}
	opts.Registerer.MustRegister(d.deliveries, d.latency, d.dropped)

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Trigger enqueues the event for every webhook in the environment that
// subscribes to it. It does not wait for deliveries to complete.
func (d *Dispatcher) Trigger(ctx context.Context, environmentID uuid.UUID, trigger database.WebhookTrigger, data interface{}) error {
	webhooks, err := d.db.GetWebhooksByEnvironmentID(ctx, environmentID)
	if err != nil {
		return xerrors.Errorf("get webhooks: %w", err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return xerrors.New("dispatcher closed")
	}

	now := time.Now().UTC()
	for _, webhook := range webhooks {
		if !webhook.HasTrigger(trigger) {
			continue
		}
		del := delivery{
			webhook: webhook,
			event: Event{
				WebhookID:  webhook.ID,
				Event:      trigger,
				OccurredAt: now,
				Data:       data,
			},
		}
		select {
		case d.queue <- del:
		default:
			// Shedding beats blocking response ingestion.
			d.dropped.Inc()
			d.log.Warn(ctx, "webhook queue full, dropping event",
				slog.F("webhook_id", webhook.ID),
				slog.F("trigger", trigger),
			)
		}
	}
	return nil
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for del := range d.queue {
		d.deliver(del)
	}
}

func (d *Dispatcher) deliver(del delivery) {
	ctx := context.Background()
	start := time.Now()

	body, err := json.Marshal(del.event)
	if err != nil {
		d.deliveries.WithLabelValues(string(del.event.Event), "error").Inc()
		d.log.Error(ctx, "marshal webhook event", slog.Error(err))
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = d.maxElapsed
	err = backoff.Retry(func() error {
		return d.post(ctx, del.webhook, body)
	}, bo)

	d.latency.Observe(time.Since(start).Seconds())
	if err != nil {
		d.deliveries.WithLabelValues(string(del.event.Event), "failure").Inc()
		d.log.Warn(ctx, "webhook delivery failed",
			slog.F("webhook_id", del.webhook.ID),
			slog.F("url", del.webhook.URL),
			slog.Error(err),
		)
		return
	}
	d.deliveries.WithLabelValues(string(del.event.Event), "success").Inc()
}

func (d *Dispatcher) post(ctx context.Context, webhook database.Webhook, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(xerrors.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if webhook.Secret != "" {
		req.Header.Set(SignatureHeader, Signature(webhook.Secret, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return xerrors.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		// The endpoint rejected the payload, retrying cannot help.
		return backoff.Permanent(xerrors.Errorf("endpoint rejected delivery: status %d", resp.StatusCode))
	}
	return xerrors.Errorf("unexpected status %d", resp.StatusCode)
}

// Signature computes the hex HMAC-SHA256 of body keyed by secret.
func Signature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature lets webhook consumers authenticate a delivery.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := Signature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
