package runtime

import (
	"log/slog"
	"sync"

	"mariana-chat/contract"
)

// Presence is the live-connection registry: a mapping from participant id
// to the sink of its active transport session. It is the only shared mutable
// structure of the messaging core and is safe for concurrent use.
//
// State is process-local on purpose. Nothing survives a restart; clients
// re-register on reconnect. A multi-instance deployment would swap this
// implementation behind contract.IPresence for a shared registry.
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
	log      *slog.Logger
}

func NewPresence(log *slog.Logger) *Presence {
	return &Presence{
		sessions: make(map[string]contract.EventSink),
		log:      log,
	}
}

// Register associates a participant id with a live sink, replacing any
// previous entry for the same id (last writer wins). A replaced sink is
// orphaned: it stays open but no longer receives pushes addressed to the
// participant. An empty id is logged and ignored, never an error.
func (p *Presence) Register(participantID string, sink contract.EventSink) {
	if participantID == "" {
		p.log.Warn("Ignoring registration with empty participant id")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.sessions[participantID]; exists {
		p.log.Debug("Replacing live connection for participant", "participant_id", participantID)
	}
	p.sessions[participantID] = sink
}

// Lookup returns the live sink for a participant. A missing entry is the
// normal offline case, reported through the boolean, not an error.
func (p *Presence) Lookup(participantID string) (contract.EventSink, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sink, ok := p.sessions[participantID]
	return sink, ok
}

// Remove drops the entry holding the given sink, if any. The scan is linear;
// the registry only holds currently connected participants. No matching
// entry (never registered, or already superseded by a later registration)
// is a silent no-op, so disconnect handling stays idempotent.
func (p *Presence) Remove(sink contract.EventSink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for participantID, registered := range p.sessions {
		if registered == sink {
			delete(p.sessions, participantID)
			p.log.Debug("Participant disconnected", "participant_id", participantID)
			return
		}
	}
}

// Connected returns the number of participants with a live connection.
func (p *Presence) Connected() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
