package log

import (
	"context"
	"log/slog"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// SlogAdapter writes capture events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.String("prop", model.PropertyName(event.Frame.Prop)),
			slog.Int("value", int(event.Frame.Value)),
		)
		if event.Layer == LayerCAN {
			attrs = append(attrs, slog.Uint64("can_id", uint64(event.Frame.CanID)))
		}
	case event.Property != nil:
		p := event.Property
		attrs = append(attrs,
			slog.String("operation", p.Operation.String()),
			slog.String("prop", model.PropertyName(p.Prop)),
			slog.Int("area", int(p.AreaID)),
			slog.String("status", p.Status.String()),
		)
		if p.Value != nil {
			attrs = append(attrs, slog.String("value", p.Value.String()))
		}
		if p.Operation == OperationSubscribe {
			attrs = append(attrs, slog.Float64("rate_hz", float64(p.SampleRate)))
		}
		if p.UserManaged {
			attrs = append(attrs, slog.Bool("user_managed", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "capture", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
