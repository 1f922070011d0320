package atmix

import (
	"github.com/abdulrabbt/audio-track-mixer/graph"
	"github.com/abdulrabbt/audio-track-mixer/log"
)

// Option configures a mixer.
type Option func(*Mixer)

// WithContextFactory substitutes the audio-graph backend. The default
// is the software engine.
func WithContextFactory(f graph.ContextFactory) Option {
	return func(m *Mixer) {
		m.factory = f
	}
}

// WithLogger substitutes the mixer logger.
func WithLogger(l log.Logger) Option {
	return func(m *Mixer) {
		m.logger = l
	}
}

// TrackOption configures a track registration.
type TrackOption func(*trackParams)

type trackParams struct {
	volume float64
}

// WithVolume sets the initial track volume in [0, 100]. Default is
// 100.
func WithVolume(volume float64) TrackOption {
	return func(p *trackParams) {
		p.volume = volume
	}
}
