// Package notify implements the agent's fire-and-forget user-facing
// notifier: a severity-prefixed message pushed to an opaque-text
// webhook sink, plus an in-memory recent-alert history. It never
// blocks a cycle on delivery and never retries — a dropped
// notification is acceptable, a stalled cycle is not.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// Severity is the notifier's three-level scale from spec.md §7.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

func (s Severity) emoji() string {
	switch s {
	case SeverityWarn:
		return "🟡"
	case SeverityCritical:
		return "🔴"
	default:
		return "🟢"
	}
}

// Message is one notification, stored in history and sent to the sink.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Text      string    `json:"text"`
}

// Sink delivers an opaque text message to wherever the operator reads
// it (Telegram, Slack, a webhook). Implementations must not block the
// caller for long; Notifier already calls them in a goroutine.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// Notifier prefixes each message with its severity's emoji (every
// message is delivered, whatever its severity), keeps a bounded in-memory
// history, and dispatches to its Sink without blocking the caller —
// adapted from the teacher's AlertManager (severity gating, in-memory
// ring, async non-blocking webhook delivery), simplified from a
// multi-webhook SOC fan-out to a single opaque-text sink per spec.md §7.
type Notifier struct {
	mu         sync.Mutex
	sink       Sink
	history    []Message
	maxHistory int
}

// New returns a Notifier delivering to sink, retaining up to
// maxHistory recent messages in memory.
func New(sink Sink, maxHistory int) *Notifier {
	if maxHistory <= 0 {
		maxHistory = 500
	}
	return &Notifier{sink: sink, maxHistory: maxHistory}
}

// Notify records and dispatches a message at the given severity.
// Chain-tamper detection, dual-source failure, and killswitch
// activation are always reported at SeverityCritical by their callers
// per spec.md §7.
func (n *Notifier) Notify(ctx context.Context, severity Severity, text string) {
	msg := Message{Timestamp: time.Now(), Severity: severity, Text: text}

	n.mu.Lock()
	n.history = append(n.history, msg)
	if len(n.history) > n.maxHistory {
		n.history = n.history[len(n.history)-n.maxHistory:]
	}
	n.mu.Unlock()

	if n.sink == nil {
		return
	}
	go func() {
		if err := n.sink.Send(ctx, severity.emoji()+" "+text); err != nil {
			log.Printf("[notify] send failed: %v", err)
		}
	}()
}

// Info, Warn, and Critical are Notify shorthands for each severity.
func (n *Notifier) Info(ctx context.Context, text string)     { n.Notify(ctx, SeverityInfo, text) }
func (n *Notifier) Warn(ctx context.Context, text string)     { n.Notify(ctx, SeverityWarn, text) }
func (n *Notifier) Critical(ctx context.Context, text string) { n.Notify(ctx, SeverityCritical, text) }

// RecentHistory returns the most recent messages, newest first, up to
// limit (0 means all retained history).
func (n *Notifier) RecentHistory(limit int) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit <= 0 || limit > len(n.history) {
		limit = len(n.history)
	}
	out := make([]Message, limit)
	for i := 0; i < limit; i++ {
		out[i] = n.history[len(n.history)-1-i]
	}
	return out
}

// WebhookSink posts the message text as JSON to a single webhook URL,
// matching the teacher's sendWebhook shape (short-timeout http.Client,
// JSON body, non-2xx logged and swallowed) collapsed from N registered
// webhooks to the one opaque-text sink spec.md §7 calls for.
type WebhookSink struct {
	URL        string
	httpClient *http.Client
}

// NewWebhookSink returns a WebhookSink posting to url with a 5-second
// timeout, matching the teacher's AlertManager http.Client.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{URL: url, httpClient: &http.Client{Timeout: 5 * time.Second}}
}

func (w *WebhookSink) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[notify] webhook returned status %d", resp.StatusCode)
	}
	return nil
}
