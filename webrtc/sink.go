// Package webrtc forwards the mixed output into a WebRTC local
// sample track, so the mix can be published to peers.
package webrtc

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/abdulrabbt/audio-track-mixer/track"
)

// frameDuration is the sample frame cadence.
const frameDuration = 20 * time.Millisecond

// ErrNoSource is returned when the provided track carries no sample
// data.
var ErrNoSource = errors.New("track has no sample source")

// SampleWriter is the subset of pion's TrackLocalStaticSample used by
// the sink.
type SampleWriter interface {
	WriteSample(sample media.Sample) error
}

// Sink pulls mixed PCM frames from a track source and writes them as
// 16-bit little-endian samples into a WebRTC track.
type Sink struct {
	src track.Source
	out SampleWriter

	floats []float64
	data   []byte
}

// NewSink returns a sink pumping t into out. The track must expose
// sample data, i.e. implement track.Source.
func NewSink(t track.Track, out SampleWriter, sampleRate int) (*Sink, error) {
	src, ok := t.(track.Source)
	if !ok {
		return nil, ErrNoSource
	}
	frameSize := sampleRate * int(frameDuration.Milliseconds()) / 1000
	return &Sink{
		src:    src,
		out:    out,
		floats: make([]float64, frameSize),
		data:   make([]byte, frameSize*2),
	}, nil
}

// Run pumps frames at the frame cadence until ctx is cancelled. It
// returns ctx.Err() on cancellation and the first pump error
// otherwise.
func (s *Sink) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Pump(); err != nil {
				return err
			}
		}
	}
}

// Pump forwards a single frame.
func (s *Sink) Pump() error {
	read, err := s.src.ReadSamples(s.floats)
	if err != nil {
		return err
	}
	if read == 0 {
		return nil
	}
	data := s.data[:read*2]
	for i := 0; i < read; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(pcm16(s.floats[i])))
	}
	return s.out.WriteSample(media.Sample{Data: data, Duration: frameDuration})
}

// pcm16 converts a [-1, 1] sample to a 16-bit value.
func pcm16(s float64) int16 {
	v := s * math.MaxInt16
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
