// Package log captures a machine-readable trace of vehicle bus activity.
//
// It is separate from operational logging (slog). Capture records every CAN
// frame, property operation, component state change and I/O error as a CBOR
// Event, so a session can be replayed and inspected offline.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For the target: write to a capture file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/data/vhal/capture.vlog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - CAN layer: raw frames with their decoded property and value (FrameEvent)
//   - GPIO layer: key bitmaps and the gear derived from them (FrameEvent)
//   - Bridge layer: get/set/emit/subscribe operations (PropertyEvent)
//   - Any layer: component state changes and errors
//
// # File Format
//
// Capture files are a stream of CBOR maps with integer keys, conventionally
// named *.vlog. The vhal-log tool views, filters and summarizes them.
package log
