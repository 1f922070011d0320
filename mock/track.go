package mock

import (
	"sync"

	"github.com/abdulrabbt/audio-track-mixer/track"
)

// Track is a fake media track with a caller-controlled id and kind.
type Track struct {
	TrackID   string
	TrackKind track.Kind

	m       sync.Mutex
	enabled bool
}

// NewTrack returns an enabled fake track.
func NewTrack(id string, kind track.Kind) *Track {
	return &Track{
		TrackID:   id,
		TrackKind: kind,
		enabled:   true,
	}
}

// ID returns the track id.
func (t *Track) ID() string {
	return t.TrackID
}

// Kind returns the track kind.
func (t *Track) Kind() track.Kind {
	return t.TrackKind
}

// Enabled returns the enabled flag.
func (t *Track) Enabled() bool {
	t.m.Lock()
	defer t.m.Unlock()
	return t.enabled
}

// SetEnabled mutates the enabled flag.
func (t *Track) SetEnabled(enabled bool) {
	t.m.Lock()
	defer t.m.Unlock()
	t.enabled = enabled
}
