//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"mariana-chat/domain/event"
	"mariana-chat/domain/message"
)

// EventSink is the push primitive a live connection exposes to the router.
// Consume must not block for long: transport implementations hand the event
// to a buffered writer and report an error when the buffer is full or the
// underlying connection is gone.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IPresence tracks which participant ids currently have a live, addressable
// connection. Registry state is process-local and lost on restart; clients
// re-register on reconnect.
type IPresence interface {
	Register(participantID string, sink EventSink)
	Lookup(participantID string) (EventSink, bool)
	Remove(sink EventSink)
}

// IRouter is the single choke point every send flows through.
// Send persists first and only then attempts a best-effort live push.
type IRouter interface {
	Send(ctx context.Context, sender EventSink, cmd message.SendCommand) (message.Message, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
