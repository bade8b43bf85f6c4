package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s [%s] %-3s %s %s\n",
		ts, shortenID(event.SessionID), event.Direction.String(), event.Layer.String(), typeLabel(event))

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Layer, event.Frame)
	case event.Property != nil:
		formatPropertyDetails(w, event.Property)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

func typeLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Property != nil:
		return event.Property.Operation.String()
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a session id.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, layer log.Layer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", hex.EncodeToString(frame.Data))
	}
	if layer == log.LayerCAN {
		fmt.Fprintf(w, "  CAN ID: 0x%03x\n", frame.CanID)
	}
	fmt.Fprintf(w, "  %s = %d\n", model.PropertyName(frame.Prop), frame.Value)
}

func formatPropertyDetails(w io.Writer, p *log.PropertyEvent) {
	fmt.Fprintf(w, "  Property: %s", model.PropertyName(p.Prop))
	if p.AreaID != 0 {
		fmt.Fprintf(w, "  Area: 0x%x", p.AreaID)
	}
	fmt.Fprintln(w)

	if p.Status != model.StatusOK {
		fmt.Fprintf(w, "  Status: %s (%d)\n", p.Status.String(), p.Status)
	}
	if p.Value != nil {
		fmt.Fprintf(w, "  Value: %s\n", p.Value.String())
	}
	if p.Operation == log.OperationSubscribe {
		fmt.Fprintf(w, "  Rate: %g Hz\n", p.SampleRate)
	}
	if p.UserManaged {
		fmt.Fprintln(w, "  User managed")
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// RunView prints the events of path that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
