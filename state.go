package hotpaste

import (
	"sync"
	"time"
)

// AppState is the mutex-guarded runtime state shared between the trigger
// source and the tray/UI layer: the enabled flag, the bound hotkey string,
// and the debounce window. The routing pipeline itself never mutates it.
type AppState struct {
	mu       sync.Mutex
	enabled  bool
	hotkey   string
	lastFire time.Time
	debounce time.Duration
}

// NewAppState creates an enabled state with the given hotkey and debounce
// window.
func NewAppState(hotkey string, debounce time.Duration) *AppState {
	return &AppState{enabled: true, hotkey: hotkey, debounce: debounce}
}

// Enabled reports whether triggers are currently accepted.
func (s *AppState) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled toggles trigger acceptance.
func (s *AppState) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Hotkey returns the bound hotkey string.
func (s *AppState) Hotkey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotkey
}

// SetHotkey records a rebound hotkey string.
func (s *AppState) SetHotkey(hotkey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotkey = hotkey
}

// Arm reports whether a trigger at now may fire: the state must be enabled
// and the debounce window since the previous fire elapsed. A successful Arm
// records the fire time.
func (s *AppState) Arm(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return false
	}
	if s.debounce > 0 && now.Sub(s.lastFire) < s.debounce {
		return false
	}
	s.lastFire = now
	return true
}
