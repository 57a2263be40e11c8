package etl

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples the engine from console reporting
// ─────────────────────────────────────────────────────────────

// Events emitted by Engine.Run.
const (
	EventRowAccepted  = "row:accepted"  // data: *domain.Business
	EventRowSkipped   = "row:skipped"   // data: *RowError
	EventBatchWritten = "batch:written" // data: int (documents written)
)

// EventEmitter receives per-row outcomes as they happen.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}
