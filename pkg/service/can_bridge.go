package service

import (
	"fmt"

	"github.com/rcar-vhal/vhal-go/pkg/can"
	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// canValue selects the scalar mirrored onto the bus: the first int32, else
// the first float truncated. Int64 and byte payloads are not carried and
// send 0.
func (b *Bridge) canValue(v model.PropertyValue) int32 {
	switch {
	case len(v.Value.Int32Values) > 0:
		return v.Value.Int32Values[0]
	case len(v.Value.FloatValues) > 0:
		return int32(v.Value.FloatValues[0])
	case len(v.Value.Int64Values) > 0:
		b.warnLog("INT64 values are not sent over CAN", "prop", model.PropertyName(v.Prop))
	case len(v.Value.Bytes) > 0:
		b.warnLog("byte values are not sent over CAN", "prop", model.PropertyName(v.Prop))
	}
	return 0
}

func (b *Bridge) sendCan(v model.PropertyValue) {
	if b.can == nil {
		return
	}
	if err := b.can.Send(v.Prop, b.canValue(v)); err != nil {
		b.debugLog("CAN echo failed", "prop", model.PropertyName(v.Prop), "error", err)
	}
}

// HandleCanMessage applies an inbound frame to the first stored value of
// the property and emits the result.
func (b *Bridge) HandleCanMessage(msg can.Message) {
	b.debugLog("CAN RX", "prop", fmt.Sprintf("0x%08x", uint32(msg.Prop)), "value", fmt.Sprintf("0x%08x", uint32(msg.Value)))

	for _, value := range b.store.ReadAllValues() {
		if value.Prop != msg.Prop {
			continue
		}

		switch {
		case len(value.Value.Int32Values) > 0:
			if msg.Prop == model.ApPowerStateReq {
				value.Value.Int32Values = b.powerStateRequest(msg.Value)
			} else {
				value.Value.Int32Values[0] = msg.Value
			}
		case len(value.Value.FloatValues) > 0:
			value.Value.FloatValues[0] = float32(msg.Value)
		case len(value.Value.Int64Values) > 0:
			b.warnLog("INT64 values received over CAN are not supported", "prop", model.PropertyName(msg.Prop))
		case len(value.Value.Bytes) > 0:
			b.warnLog("byte values received over CAN are not supported", "prop", model.PropertyName(msg.Prop))
		}

		value.Timestamp = b.now()
		if b.store.WriteValue(value, true) {
			b.emit(value)
		}
		return
	}

	b.debugLog("CAN frame for unknown property ignored", "prop", model.PropertyName(msg.Prop))
}

// powerStateRequest splits the CAN value into [request, parameter] and
// drives the PMIC backup mode when enabled.
func (b *Bridge) powerStateRequest(raw int32) []int32 {
	req := raw & 0xffff
	param := raw >> 16

	if b.config.BackupMode && b.backup != nil {
		switch {
		case req == model.PowerStateReqShutdownPrepare && param == model.ShutdownCanSleep:
			b.setBackupMode(true)
		case req == model.PowerStateReqCancelShutdown:
			b.setBackupMode(false)
		}
	}
	return []int32{req, param}
}

func (b *Bridge) setBackupMode(enable bool) {
	state := vlog.StateOff
	if enable {
		state = vlog.StateOn
	}

	if err := b.backup.Set(enable); err != nil {
		b.errorLog("could not set backup mode", "mode", state, "error", err)
		b.rec.Error(vlog.LayerPower, "set backup mode "+state, err)
		return
	}
	b.rec.State(vlog.LayerPower, vlog.StateEntityBackupMode, "", state, "power state request")
}
