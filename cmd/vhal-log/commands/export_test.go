package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	return []log.Event{
		{
			Timestamp: ts,
			SessionID: "5f0c2a9e-0000-4000-8000-000000000001",
			Direction: log.DirectionIn,
			Layer:     log.LayerCAN,
			Category:  log.CategoryFrame,
			Frame: &log.FrameEvent{
				Size:  16,
				CanID: 0x123,
				Prop:  model.PerfVehicleSpeed,
				Value: 42,
			},
		},
		{
			Timestamp: ts.Add(time.Millisecond),
			SessionID: "5f0c2a9e-0000-4000-8000-000000000001",
			Direction: log.DirectionOut,
			Layer:     log.LayerBridge,
			Category:  log.CategoryProperty,
			Property: &log.PropertyEvent{
				Operation: log.OperationEmit,
				Prop:      model.PerfVehicleSpeed,
				Value:     &model.RawValue{FloatValues: []float32{42}},
			},
		},
		{
			Timestamp: ts.Add(2 * time.Second),
			SessionID: "5f0c2a9e-0000-4000-8000-000000000001",
			Layer:     log.LayerGPIO,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityGPIO,
				NewState: log.StateUp,
			},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	var lines []log.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e log.Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, e)
	}

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Frame == nil || lines[0].Frame.Value != 42 {
		t.Errorf("frame payload lost: %+v", lines[0].Frame)
	}
	if lines[1].Property == nil || lines[1].Property.Operation != log.OperationEmit {
		t.Errorf("property payload lost: %+v", lines[1].Property)
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", rows[0])
	}

	frame := rows[1]
	if frame[3] != "CAN" || frame[5] != "Frame" || frame[6] != "PERF_VEHICLE_SPEED" || frame[8] != "42" {
		t.Errorf("unexpected frame row: %v", frame)
	}
	emit := rows[2]
	if emit[5] != "EMIT" || emit[8] != "{float[42]}" {
		t.Errorf("unexpected property row: %v", emit)
	}
	state := rows[3]
	if state[4] != "STATE" || state[8] != log.StateUp {
		t.Errorf("unexpected state row: %v", state)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	if err := RunExport(filepath.Join(t.TempDir(), "missing.vlog"), "jsonl", ""); err == nil {
		t.Error("expected error for missing capture file")
	}
}
