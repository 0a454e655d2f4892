package observability

import (
	"sync/atomic"
	"time"
)

// Metrics aggregates the messaging counters exposed on the debug endpoint
// and periodically logged by the health worker. All counters are atomic;
// the struct is shared between the router, the transport layer and the
// health worker without locking.
type Metrics struct {
	startedAt time.Time

	sessionsOpened   atomic.Uint64
	sessionsClosed   atomic.Uint64
	messagesRouted   atomic.Uint64
	pushesDelivered  atomic.Uint64
	pushFailures     atomic.Uint64
	presenceMisses   atomic.Uint64
	sendRejections   atomic.Uint64
	voiceNotes       atomic.Uint64
	messagesCensored atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{startedAt: time.Now().UTC()}
}

func (m *Metrics) SessionOpened()   { m.sessionsOpened.Add(1) }
func (m *Metrics) SessionClosed()   { m.sessionsClosed.Add(1) }
func (m *Metrics) MessageRouted()   { m.messagesRouted.Add(1) }
func (m *Metrics) PushDelivered()   { m.pushesDelivered.Add(1) }
func (m *Metrics) PushFailed()      { m.pushFailures.Add(1) }
func (m *Metrics) PresenceMiss()    { m.presenceMisses.Add(1) }
func (m *Metrics) SendRejected()    { m.sendRejections.Add(1) }
func (m *Metrics) VoiceNoteStored() { m.voiceNotes.Add(1) }
func (m *Metrics) MessageCensored() { m.messagesCensored.Add(1) }

// Snapshot returns a point-in-time view of every counter, suitable for
// JSON rendering on the debug endpoint.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"uptime_seconds":    int64(time.Since(m.startedAt).Seconds()),
		"sessions_opened":   m.sessionsOpened.Load(),
		"sessions_closed":   m.sessionsClosed.Load(),
		"messages_routed":   m.messagesRouted.Load(),
		"pushes_delivered":  m.pushesDelivered.Load(),
		"push_failures":     m.pushFailures.Load(),
		"presence_misses":   m.presenceMisses.Load(),
		"send_rejections":   m.sendRejections.Load(),
		"voice_notes":       m.voiceNotes.Load(),
		"messages_censored": m.messagesCensored.Load(),
	}
}
