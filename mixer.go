package atmix

import (
	"fmt"
	"sync"

	"github.com/abdulrabbt/audio-track-mixer/engine"
	"github.com/abdulrabbt/audio-track-mixer/graph"
	"github.com/abdulrabbt/audio-track-mixer/log"
	"github.com/abdulrabbt/audio-track-mixer/track"
)

// Mixer combines multiple live audio tracks into a single mixed track.
// It owns one audio-graph context exclusively: a destination node
// carrying the mix and an analyser listening to the mixer's own
// output. Tracks are registered by id, each with its own
// source -> gain -> destination chain.
type Mixer struct {
	logger  log.Logger
	factory graph.ContextFactory

	graph       graph.Context
	destination graph.DestinationNode
	analyser    graph.AnalyserNode
	loop        graph.SourceNode // feeds the analyser from the destination stream

	m       sync.Mutex
	tracks  map[string]*registration
	samples []byte
}

// registration is the per-track wiring record.
type registration struct {
	track  track.Track
	stream *track.MediaStream
	source graph.SourceNode
	gain   graph.GainNode
}

// New resolves the audio-graph capability and builds the mixed
// output: a destination node and an analyser fed from the
// destination's own stream. It fails when the backend cannot provide
// a context or a media-stream destination, retaining no partial
// state. An interrupted context triggers a best-effort resume, its
// failure is not surfaced.
func New(options ...Option) (*Mixer, error) {
	m := &Mixer{
		logger: log.GetLogger(),
		tracks: make(map[string]*registration),
	}
	for _, option := range options {
		option(m)
	}
	if m.factory == nil {
		m.factory = engine.Factory{}
	}

	ctx, err := m.factory.NewContext()
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	destination, err := ctx.CreateMediaStreamDestination()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("media stream destination: %w", err)
	}
	analyser, err := ctx.CreateAnalyser()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("analyser: %w", err)
	}
	loop, err := ctx.CreateMediaStreamSource(destination.Stream())
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("mixed stream source: %w", err)
	}
	if err := loop.Connect(analyser); err != nil {
		ctx.Close()
		return nil, fmt.Errorf("analyser connection: %w", err)
	}

	m.graph = ctx
	m.destination = destination
	m.analyser = analyser
	m.loop = loop
	m.samples = make([]byte, analyser.FrequencyBinCount())

	ctx.OnStateChange(func(s graph.State) {
		if s == graph.Interrupted {
			// recovery is best-effort, failure stays unobserved
			_ = ctx.Resume()
		}
	})
	return m, nil
}

// AddTrack registers an audio track and wires it into the mix with
// its own gain node. Initial volume is 100 unless WithVolume is
// provided. It fails with ErrInvalidTrack for non-audio tracks and
// with ErrTrackAlreadyAdded when the track id is registered already;
// failed calls leave the registry untouched.
func (m *Mixer) AddTrack(t track.Track, options ...TrackOption) error {
	if !isAudio(t) {
		return ErrInvalidTrack
	}
	params := trackParams{volume: 100}
	for _, option := range options {
		option(&params)
	}

	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.tracks[t.ID()]; ok {
		return ErrTrackAlreadyAdded
	}

	stream := track.NewMediaStream(t)
	source, err := m.graph.CreateMediaStreamSource(stream)
	if err != nil {
		return fmt.Errorf("source node: %w", err)
	}
	gain, err := m.graph.CreateGain()
	if err != nil {
		return fmt.Errorf("gain node: %w", err)
	}
	gain.SetGain(gainValue(params.volume))
	if err := source.Connect(gain); err != nil {
		return fmt.Errorf("source connection: %w", err)
	}
	if err := gain.Connect(m.destination); err != nil {
		_ = source.Disconnect(gain)
		return fmt.Errorf("destination connection: %w", err)
	}

	m.tracks[t.ID()] = &registration{
		track:  t,
		stream: stream,
		source: source,
		gain:   gain,
	}
	m.logger.Debug("track added: ", t.ID())
	return nil
}

// RemoveTrack unwires a track and deletes its registration. Removing
// a track that is not registered is a no-op.
func (m *Mixer) RemoveTrack(t track.Track) error {
	if !isAudio(t) {
		return ErrInvalidTrack
	}
	m.m.Lock()
	defer m.m.Unlock()
	reg, ok := m.tracks[t.ID()]
	if !ok {
		return nil
	}
	_ = reg.gain.Disconnect(m.destination)
	_ = reg.source.Disconnect(reg.gain)
	delete(m.tracks, t.ID())
	m.logger.Debug("track removed: ", t.ID())
	return nil
}

// SetTrackVolume sets the track volume. Volume is expected in
// [0, 100] and maps linearly to gain, out-of-range values are
// clamped. Unregistered tracks are silently ignored.
func (m *Mixer) SetTrackVolume(t track.Track, volume float64) error {
	if !isAudio(t) {
		return ErrInvalidTrack
	}
	m.m.Lock()
	defer m.m.Unlock()
	if reg, ok := m.tracks[t.ID()]; ok {
		reg.gain.SetGain(gainValue(volume))
	}
	return nil
}

// MuteTrack silences the track signal at the track level, leaving
// gain and wiring untouched. It reports false when the track is not
// registered.
func (m *Mixer) MuteTrack(t track.Track) (bool, error) {
	return m.setTrackEnabled(t, false)
}

// UnmuteTrack restores the track signal. It reports false when the
// track is not registered.
func (m *Mixer) UnmuteTrack(t track.Track) (bool, error) {
	return m.setTrackEnabled(t, true)
}

func (m *Mixer) setTrackEnabled(t track.Track, enabled bool) (bool, error) {
	if !isAudio(t) {
		return false, ErrInvalidTrack
	}
	m.m.Lock()
	defer m.m.Unlock()
	reg, ok := m.tracks[t.ID()]
	if !ok {
		return false, nil
	}
	reg.track.SetEnabled(enabled)
	return true, nil
}

// Tracks returns all registered tracks in registry order.
func (m *Mixer) Tracks() []track.Track {
	m.m.Lock()
	defer m.m.Unlock()
	tracks := make([]track.Track, 0, len(m.tracks))
	for _, reg := range m.tracks {
		tracks = append(tracks, reg.track)
	}
	return tracks
}

// MixedTrack returns the single audio track carried by the mixed
// output stream.
func (m *Mixer) MixedTrack() track.Track {
	tracks := m.destination.Stream().AudioTracks()
	if len(tracks) == 0 {
		return nil
	}
	return tracks[0]
}

// MixedMediaStream returns the mixed output stream. It is a live
// reference and reflects future changes to the mix.
func (m *Mixer) MixedMediaStream() *track.MediaStream {
	return m.destination.Stream()
}

// MixedTrackVolume meters the mixed output at the instant of the
// call: the maximum deviation from the silence baseline across one
// analyser read, scaled to [0, 100]. It is a peak meter, not RMS.
func (m *Mixer) MixedTrackVolume() int {
	if m.analyser == nil {
		return 0
	}
	m.m.Lock()
	defer m.m.Unlock()
	read := m.analyser.ByteTimeDomainData(m.samples)
	max := 0
	for _, b := range m.samples[:read] {
		deviation := int(b) - 128
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > max {
			max = deviation
		}
	}
	return max * 100 / 128
}

// Destroy unwires every registration, clears the registry and
// releases the context. The returned channel completes exactly once
// with the release result. The mixer must not be used afterwards.
func (m *Mixer) Destroy() <-chan error {
	m.m.Lock()
	for _, reg := range m.tracks {
		_ = reg.gain.Disconnect(m.destination)
		_ = reg.source.Disconnect(reg.gain)
	}
	m.tracks = make(map[string]*registration)
	m.m.Unlock()
	return m.graph.Close()
}

// isAudio validates the input contract of per-track operations.
func isAudio(t track.Track) bool {
	return t != nil && t.Kind() == track.Audio
}

// gainValue maps volume in [0, 100] to a gain multiplier in [0, 1].
// Out-of-range volumes are clamped: gain below zero inverts phase
// instead of silencing.
func gainValue(volume float64) float64 {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return volume / 100
}

// TracksFromStream returns all audio tracks of an arbitrary stream.
// No mixer state is involved.
func TracksFromStream(s *track.MediaStream) []track.Track {
	if s == nil {
		return nil
	}
	return s.AudioTracks()
}
