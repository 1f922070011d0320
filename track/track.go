package track

import (
	"sync"

	"github.com/rs/xid"
)

// Kind discriminates media track content.
type Kind string

const (
	// Audio is the only kind accepted by the mixer.
	Audio = Kind("audio")
	// Video tracks may travel inside streams but are rejected by the mixer.
	Video = Kind("video")
)

type (
	// Track is a live media track. It carries identity, a kind
	// discriminator and a mutable enabled flag. Sample access is not
	// part of the contract: consumers that need signal data assert
	// for Source.
	Track interface {
		ID() string
		Kind() Kind
		Enabled() bool
		SetEnabled(bool)
	}

	// Source produces mono float64 samples in [-1, 1].
	// Implementations should use next error conventions:
	//		- nil if a full buffer was read;
	//		- io.EOF if no data was read and the signal is finished.
	Source interface {
		ReadSamples(dst []float64) (int, error)
	}
)

// Live is a Track backed by a sample Source. A disabled track still
// produces frames, but they carry silence.
type Live struct {
	id   string
	kind Kind
	src  Source

	m       sync.Mutex
	enabled bool
}

// NewLive returns a new live track with a generated id.
func NewLive(kind Kind, src Source) *Live {
	return &Live{
		id:      xid.New().String(),
		kind:    kind,
		src:     src,
		enabled: true,
	}
}

// ID returns the track id.
func (l *Live) ID() string {
	return l.id
}

// Kind returns the track kind.
func (l *Live) Kind() Kind {
	return l.kind
}

// Enabled returns true if the track signal is not silenced.
func (l *Live) Enabled() bool {
	l.m.Lock()
	defer l.m.Unlock()
	return l.enabled
}

// SetEnabled silences or restores the track signal.
func (l *Live) SetEnabled(enabled bool) {
	l.m.Lock()
	defer l.m.Unlock()
	l.enabled = enabled
}

// ReadSamples pulls samples from the underlying source. Disabled
// tracks zero the payload and keep the frame cadence intact.
func (l *Live) ReadSamples(dst []float64) (int, error) {
	n, err := l.src.ReadSamples(dst)
	if !l.Enabled() {
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
	}
	return n, err
}

// ConstantSource emits the same sample value forever.
type ConstantSource float64

// ReadSamples fills dst with the constant value.
func (c ConstantSource) ReadSamples(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = float64(c)
	}
	return len(dst), nil
}
