package fixtures

import "errors"

// ErrRegistryFull is returned once a RecordingRegistry reaches its limit.
var ErrRegistryFull = errors.New("fixtures: registry full")

// RecordingRegistry captures command handlers passed to RegisterCommand.
type RecordingRegistry struct {
	Handlers []any
	limit    int
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		Handlers: make([]any, 0),
	}
}

// FailAfter makes RegisterCommand fail once n handlers have been recorded.
func (r *RecordingRegistry) FailAfter(n int) *RecordingRegistry {
	r.limit = n
	return r
}

// RegisterCommand records the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.limit > 0 && len(r.Handlers) >= r.limit {
		return ErrRegistryFull
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}
