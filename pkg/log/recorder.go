package log

import (
	"errors"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Recorder stamps events with a session id and the current time before
// handing them to a Logger. A nil *Recorder discards everything, so
// components can call it unconditionally.
type Recorder struct {
	logger    Logger
	sessionID string
	now       func() time.Time
}

// NewRecorder wraps logger with a fresh session id. A nil logger yields a
// nil Recorder.
func NewRecorder(logger Logger) *Recorder {
	if logger == nil {
		return nil
	}
	return &Recorder{
		logger:    logger,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// SessionID returns the id attached to every recorded event.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.sessionID
}

// Record stamps and forwards event.
func (r *Recorder) Record(event Event) {
	if r == nil {
		return
	}
	event.Timestamp = r.now()
	event.SessionID = r.sessionID
	r.logger.Log(event)
}

// Frame records a CAN frame or GPIO bitmap.
func (r *Recorder) Frame(layer Layer, dir Direction, frame FrameEvent) {
	r.Record(Event{
		Direction: dir,
		Layer:     layer,
		Category:  CategoryFrame,
		Frame:     &frame,
	})
}

// Property records a bridge operation.
func (r *Recorder) Property(dir Direction, prop PropertyEvent) {
	r.Record(Event{
		Direction: dir,
		Layer:     LayerBridge,
		Category:  CategoryProperty,
		Property:  &prop,
	})
}

// State records a component state change.
func (r *Recorder) State(layer Layer, entity StateEntity, oldState, newState, reason string) {
	r.Record(Event{
		Layer:    layer,
		Category: CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

// Error records err. An errno is kept as the event code.
func (r *Recorder) Error(layer Layer, context string, err error) {
	if r == nil || err == nil {
		return
	}

	data := &ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: context,
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		code := int(errno)
		data.Code = &code
	}

	r.Record(Event{
		Layer:    layer,
		Category: CategoryError,
		Error:    data,
	})
}
