// Package commands implements the vhal-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// FilterOptions holds the textual selection flags shared by view and
// filter.
type FilterOptions struct {
	Output    string
	Session   string
	Layer     string
	Direction string
	Category  string
	Prop      string
	TimeStart string
	TimeEnd   string
}

// Build converts the options into a capture filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{SessionID: o.Session}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}

	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	if o.Prop != "" {
		p, err := model.ParseProperty(o.Prop)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Prop = &p
	}

	return filter, nil
}

// ParseLayerFlag parses a layer string (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "can":
		return log.LayerCAN, nil
	case "gpio":
		return log.LayerGPIO, nil
	case "bridge":
		return log.LayerBridge, nil
	case "power":
		return log.LayerPower, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be can, gpio, bridge, or power)", s)
	}
}

// ParseDirectionFlag parses a direction string (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "property":
		return log.CategoryProperty, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be frame, property, state, or error)", s)
	}
}

// RunFilter writes the events of path matching opts to opts.Output and
// returns how many were kept.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}

		out.Log(event)
		count++
	}

	if err := out.Close(); err != nil {
		return count, fmt.Errorf("failed to close output file: %w", err)
	}
	if n := out.Dropped(); n > 0 {
		return count, fmt.Errorf("%d events could not be written", n)
	}
	return count, nil
}
