package discovery

import (
	"errors"
	"sync"
)

// DefaultTopicPrefix is the Home Assistant default discovery prefix.
const DefaultTopicPrefix = "homeassistant"

// maxTopicPrefixLen caps the discovery prefix length in bytes. Longer
// values are rejected outright rather than truncated, since a truncated
// prefix would publish to a topic nothing is listening on.
const maxTopicPrefixLen = 63

// State errors.
var (
	// ErrPrefixEmpty is returned for an empty discovery topic prefix.
	ErrPrefixEmpty = errors.New("discovery: topic prefix is empty")

	// ErrPrefixTooLong is returned when the prefix exceeds 63 bytes.
	ErrPrefixTooLong = errors.New("discovery: topic prefix exceeds 63 bytes")
)

// State holds the runtime discovery settings.
//
// Thread Safety:
//   - All methods are safe for concurrent use; the config dispatcher
//     writes from the MQTT receive path while publishers read.
type State struct {
	mu      sync.RWMutex
	enabled bool
	prefix  string
}

// NewState returns discovery state with the defaults: disabled, prefix
// "homeassistant".
func NewState() *State {
	return &State{prefix: DefaultTopicPrefix}
}

// Enabled reports whether discovery publishing is switched on.
func (s *State) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetEnabled switches discovery publishing on or off.
func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// TopicPrefix returns the current discovery topic prefix.
func (s *State) TopicPrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefix
}

// SetTopicPrefix replaces the discovery topic prefix.
//
// Returns:
//   - error: ErrPrefixEmpty or ErrPrefixTooLong; the stored prefix is
//     unchanged on error
func (s *State) SetTopicPrefix(prefix string) error {
	if prefix == "" {
		return ErrPrefixEmpty
	}
	if len(prefix) > maxTopicPrefixLen {
		return ErrPrefixTooLong
	}

	s.mu.Lock()
	s.prefix = prefix
	s.mu.Unlock()
	return nil
}
