package userhal

import (
	"log/slog"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// Kind identifies one of the user-management properties.
type Kind uint8

const (
	KindInitialUserInfo Kind = iota + 1
	KindSwitchUser
	KindCreateUser
	KindRemoveUser
	KindUserIdentificationAssociation
)

// String returns the property name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInitialUserInfo:
		return "INITIAL_USER_INFO"
	case KindSwitchUser:
		return "SWITCH_USER"
	case KindCreateUser:
		return "CREATE_USER"
	case KindRemoveUser:
		return "REMOVE_USER"
	case KindUserIdentificationAssociation:
		return "USER_IDENTIFICATION_ASSOCIATION"
	default:
		return "UNKNOWN"
	}
}

// Classify maps a property id to its kind.
func Classify(prop int32) (Kind, bool) {
	switch prop {
	case model.InitialUserInfo:
		return KindInitialUserInfo, true
	case model.SwitchUser:
		return KindSwitchUser, true
	case model.CreateUser:
		return KindCreateUser, true
	case model.RemoveUser:
		return KindRemoveUser, true
	case model.UserIdentificationAssociation:
		return KindUserIdentificationAssociation, true
	default:
		return 0, false
	}
}

// IsSupported reports whether prop is handled by the protocol.
func IsSupported(prop int32) bool {
	_, ok := Classify(prop)
	return ok
}

// Handler computes protocol responses. The zero value is ready to use.
type Handler struct {
	logger *slog.Logger
}

// New creates a handler. A nil logger disables logging.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// IsSupported reports whether prop is handled by the protocol.
func (h *Handler) IsSupported(prop int32) bool {
	return IsSupported(prop)
}

// OnSet handles a write from the head unit.
func (h *Handler) OnSet(value model.PropertyValue) (*model.PropertyValue, error) {
	kind, ok := Classify(value.Prop)
	if !ok {
		return nil, model.Errorf(model.StatusInvalidArg, "unsupported property: %s", value)
	}

	switch kind {
	case KindInitialUserInfo:
		return h.onSetInitialUserInfo(value)
	case KindSwitchUser:
		return h.onSetSwitchUser(value)
	case KindCreateUser:
		return h.onSetCreateUser(value)
	case KindRemoveUser:
		h.infoLog("REMOVE_USER is FYI only, nothing to do")
		return nil, nil
	default:
		return h.onSetUserIdentificationAssociation(value)
	}
}

// OnGet handles a read from the head unit. Only
// USER_IDENTIFICATION_ASSOCIATION can be read.
func (h *Handler) OnGet(value model.PropertyValue) (*model.PropertyValue, error) {
	kind, ok := Classify(value.Prop)
	if !ok {
		h.errorLog("OnGet: property not supported", "prop", model.PropertyName(value.Prop))
		return nil, model.Errorf(model.StatusInvalidArg, "not supported by user HAL")
	}

	if kind != KindUserIdentificationAssociation {
		h.errorLog("OnGet: property is only supported on SET", "prop", kind.String())
		return nil, model.Errorf(model.StatusInvalidArg, "only supported on SET")
	}
	return h.onGetUserIdentificationAssociation(value)
}

func (h *Handler) onSetInitialUserInfo(value model.PropertyValue) (*model.PropertyValue, error) {
	if err := requireFields(value); err != nil {
		h.errorLog("set(INITIAL_USER_INFO): no int32values, ignoring it", "value", value.String())
		return nil, err
	}

	h.infoLog("set(INITIAL_USER_INFO) called", "value", value.String())
	return response(value, value.Value.Int32Values[0], model.InitialUserInfoActionDefault), nil
}

func (h *Handler) onSetSwitchUser(value model.PropertyValue) (*model.PropertyValue, error) {
	if err := requireFields(value); err != nil {
		h.errorLog("set(SWITCH_USER): no int32values, ignoring it", "value", value.String())
		return nil, err
	}

	h.infoLog("set(SWITCH_USER) called", "value", value.String())
	if fields := value.Value.Int32Values; len(fields) > 1 {
		switch fields[1] {
		case model.SwitchUserLegacyAndroidSwitch:
			h.infoLog("request is LEGACY_ANDROID_SWITCH; ignoring it")
			return nil, nil
		case model.SwitchUserAndroidPostSwitch:
			h.infoLog("request is ANDROID_POST_SWITCH; ignoring it")
			return nil, nil
		case model.SwitchUserVehicleRequest:
			h.infoLog("request is VEHICLE_REQUEST; pass the request on")
			echo := value.Clone()
			return &echo, nil
		}
	}

	return response(value, value.Value.Int32Values[0],
		model.SwitchUserVehicleResponse, model.SwitchUserStatusSuccess), nil
}

func (h *Handler) onSetCreateUser(value model.PropertyValue) (*model.PropertyValue, error) {
	if err := requireFields(value); err != nil {
		h.errorLog("set(CREATE_USER): no int32values, ignoring it", "value", value.String())
		return nil, err
	}

	h.debugLog("set(CREATE_USER) called", "value", value.String())
	return response(value, value.Value.Int32Values[0], model.CreateUserStatusSuccess), nil
}

func (h *Handler) onSetUserIdentificationAssociation(value model.PropertyValue) (*model.PropertyValue, error) {
	if err := requireFields(value); err != nil {
		h.errorLog("set(USER_IDENTIFICATION_ASSOCIATION): no int32values, ignoring it", "value", value.String())
		return nil, err
	}

	h.infoLog("set(USER_IDENTIFICATION_ASSOCIATION) called", "value", value.String())
	record, err := canonicalize(value.Value.Int32Values, requestSet)
	if err != nil {
		return nil, err
	}
	return defaultAssociation(value, record), nil
}

func (h *Handler) onGetUserIdentificationAssociation(value model.PropertyValue) (*model.PropertyValue, error) {
	if err := requireFields(value); err != nil {
		h.errorLog("get(USER_IDENTIFICATION_ASSOCIATION): no int32values, ignoring it", "value", value.String())
		return nil, err
	}

	h.infoLog("get(USER_IDENTIFICATION_ASSOCIATION) called", "value", value.String())
	record, err := canonicalize(value.Value.Int32Values, requestGet)
	if err != nil {
		return nil, err
	}
	return defaultAssociation(value, record), nil
}

func requireFields(value model.PropertyValue) error {
	if len(value.Value.Int32Values) == 0 {
		return model.Errorf(model.StatusInvalidArg, "no int32values on %s", value)
	}
	return nil
}

// response builds a reply that keeps the request's property, status and
// timestamp.
func response(req model.PropertyValue, fields ...int32) *model.PropertyValue {
	return &model.PropertyValue{
		Prop:      req.Prop,
		AreaID:    req.AreaID,
		Timestamp: req.Timestamp,
		Status:    req.Status,
		Value:     model.RawValue{Int32Values: fields},
	}
}

func (h *Handler) debugLog(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}

func (h *Handler) infoLog(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Info(msg, args...)
	}
}

func (h *Handler) errorLog(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Error(msg, args...)
	}
}
