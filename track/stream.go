package track

import (
	"sync"

	"github.com/rs/xid"
)

// MediaStream carries an ordered list of live tracks. It is a live
// reference: tracks added or removed later are visible to every
// holder of the stream.
type MediaStream struct {
	id string

	m      sync.Mutex
	tracks []Track
}

// NewMediaStream returns a new stream wrapping provided tracks.
func NewMediaStream(tracks ...Track) *MediaStream {
	s := &MediaStream{
		id:     xid.New().String(),
		tracks: make([]Track, 0, len(tracks)),
	}
	s.tracks = append(s.tracks, tracks...)
	return s
}

// ID returns the stream id.
func (s *MediaStream) ID() string {
	return s.id
}

// Tracks returns a snapshot of all tracks in the stream.
func (s *MediaStream) Tracks() []Track {
	s.m.Lock()
	defer s.m.Unlock()
	tracks := make([]Track, len(s.tracks))
	copy(tracks, s.tracks)
	return tracks
}

// AudioTracks returns a snapshot of audio-kind tracks in the stream.
func (s *MediaStream) AudioTracks() []Track {
	s.m.Lock()
	defer s.m.Unlock()
	tracks := make([]Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		if t.Kind() == Audio {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// AddTrack appends a track to the stream. Tracks already present are
// not added twice.
func (s *MediaStream) AddTrack(t Track) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, existing := range s.tracks {
		if existing.ID() == t.ID() {
			return
		}
	}
	s.tracks = append(s.tracks, t)
}

// RemoveTrack removes a track from the stream. Unknown tracks are
// ignored.
func (s *MediaStream) RemoveTrack(t Track) {
	s.m.Lock()
	defer s.m.Unlock()
	for i, existing := range s.tracks {
		if existing.ID() == t.ID() {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			return
		}
	}
}
