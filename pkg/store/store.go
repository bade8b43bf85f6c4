package store

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

type recordKey struct {
	prop   int32
	areaID int32
}

// Store holds property configs and current values.
type Store struct {
	mu      sync.RWMutex
	configs map[int32]model.PropertyConfig
	values  map[recordKey]model.PropertyValue

	logger *slog.Logger
}

// New creates an empty store. A nil logger disables debug output.
func New(logger *slog.Logger) *Store {
	return &Store{
		configs: make(map[int32]model.PropertyConfig),
		values:  make(map[recordKey]model.PropertyValue),
		logger:  logger,
	}
}

// RegisterProperty adds or replaces the config of a property.
func (s *Store) RegisterProperty(cfg model.PropertyConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.Prop] = cfg
}

// WriteValue stores a value. It returns false if the property is not
// registered or the stored value is newer than v. The notify flag is
// accepted for interface compatibility; change events are emitted by the
// caller.
func (s *Store) WriteValue(v model.PropertyValue, notify bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[v.Prop]; !ok {
		s.debugLog("WriteValue: property not registered", "prop", model.PropertyName(v.Prop))
		return false
	}

	key := s.keyFor(v.Prop, v.AreaID)
	if cur, ok := s.values[key]; ok && cur.Timestamp > v.Timestamp {
		s.debugLog("WriteValue: stale value rejected",
			"prop", model.PropertyName(v.Prop),
			"stored", cur.Timestamp,
			"incoming", v.Timestamp)
		return false
	}

	v = v.Clone()
	v.AreaID = key.areaID
	s.values[key] = v
	return true
}

// ReadValue returns the value stored for (prop, areaID).
func (s *Store) ReadValue(prop, areaID int32) (model.PropertyValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[s.keyFor(prop, areaID)]
	if !ok {
		return model.PropertyValue{}, false
	}
	return v.Clone(), true
}

// ReadAllValues returns a copy of every stored value, ordered by property
// id and area.
func (s *Store) ReadAllValues() []model.PropertyValue {
	s.mu.RLock()
	out := make([]model.PropertyValue, 0, len(s.values))
	for _, v := range s.values {
		out = append(out, v.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.PropertyValue) int {
		if c := cmp.Compare(a.Prop, b.Prop); c != 0 {
			return c
		}
		return cmp.Compare(a.AreaID, b.AreaID)
	})
	return out
}

// Config returns the config of a registered property.
func (s *Store) Config(prop int32) (model.PropertyConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[prop]
	return cfg, ok
}

// AllConfigs returns all registered configs ordered by property id.
func (s *Store) AllConfigs() []model.PropertyConfig {
	s.mu.RLock()
	out := make([]model.PropertyConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		out = append(out, cfg)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.PropertyConfig) int {
		return cmp.Compare(a.Prop, b.Prop)
	})
	return out
}

// keyFor maps global properties onto area 0.
func (s *Store) keyFor(prop, areaID int32) recordKey {
	if model.IsGlobal(prop) {
		areaID = 0
	}
	return recordKey{prop: prop, areaID: areaID}
}

func (s *Store) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
