// Package visual holds the display-filter parameters applied to the
// rendered classroom video. The settings are pure view-layer state; they
// never touch the underlying media tracks.
package visual

import "sync"

// Parameter bounds. Values outside a range are clamped, not rejected.
const (
	MinLevel = 0
	MaxLevel = 200

	MinBlur = 0
	MaxBlur = 20

	MinDetail = 80
	MaxDetail = 180
)

// Settings is one complete set of filter parameters.
type Settings struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	Blur       int `json:"blur"`
	Detail     int `json:"detail"`
}

// Defaults returns the neutral settings.
func Defaults() Settings {
	return Settings{Brightness: 100, Contrast: 100, Saturation: 100, Blur: 0, Detail: 100}
}

// Clamped returns the settings with every parameter forced into range.
func (s Settings) Clamped() Settings {
	s.Brightness = clamp(s.Brightness, MinLevel, MaxLevel)
	s.Contrast = clamp(s.Contrast, MinLevel, MaxLevel)
	s.Saturation = clamp(s.Saturation, MinLevel, MaxLevel)
	s.Blur = clamp(s.Blur, MinBlur, MaxBlur)
	s.Detail = clamp(s.Detail, MinDetail, MaxDetail)
	return s
}

// Store owns the settings for one classroom.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

func NewStore() *Store {
	return &Store{settings: Defaults()}
}

// Get returns the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

// Set replaces the settings, clamping each parameter into range, and
// returns the stored value.
func (st *Store) Set(s Settings) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings = s.Clamped()
	return st.settings
}

// Reset restores all parameters to their neutral defaults in one step.
func (st *Store) Reset() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings = Defaults()
	return st.settings
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
