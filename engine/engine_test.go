package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/abdulrabbt/audio-track-mixer/engine"
	"github.com/abdulrabbt/audio-track-mixer/graph"
	"github.com/abdulrabbt/audio-track-mixer/mock"
	"github.com/abdulrabbt/audio-track-mixer/track"
)

func newContext(t *testing.T, f engine.Factory) *engine.Context {
	t.Helper()
	ctx, err := f.NewContext()
	assert.Nil(t, err)
	return ctx.(*engine.Context)
}

func TestFactoryDefaults(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	assert.Equal(t, 44100, ctx.SampleRate())
	assert.Equal(t, 512, ctx.BufferSize())
	assert.Equal(t, graph.Running, ctx.State())

	custom := newContext(t, engine.Factory{SampleRate: 8000, BufferSize: 64})
	assert.Equal(t, 8000, custom.SampleRate())
	assert.Equal(t, 64, custom.BufferSize())
}

func TestDestinationStream(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, err := ctx.CreateMediaStreamDestination()
	assert.Nil(t, err)

	tracks := dest.Stream().AudioTracks()
	assert.Equal(t, 1, len(tracks))
	assert.Equal(t, track.Audio, tracks[0].Kind())
	_, ok := tracks[0].(track.Source)
	assert.True(t, ok)
}

func mixedSource(t *testing.T, dest graph.DestinationNode) track.Source {
	t.Helper()
	return dest.Stream().AudioTracks()[0].(track.Source)
}

func TestRenderChain(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()

	stream := track.NewMediaStream(track.NewLive(track.Audio, track.ConstantSource(0.5)))
	source, err := ctx.CreateMediaStreamSource(stream)
	assert.Nil(t, err)
	gain, err := ctx.CreateGain()
	assert.Nil(t, err)
	assert.Equal(t, 1.0, gain.Gain())
	gain.SetGain(0.5)

	assert.Nil(t, source.Connect(gain))
	assert.Nil(t, gain.Connect(dest))

	buf := make([]float64, 8)
	read, err := mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	assert.Equal(t, 8, read)
	for _, s := range buf {
		assert.Equal(t, 0.25, s)
	}

	// unwired chain renders silence again
	assert.Nil(t, gain.Disconnect(dest))
	_, err = mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	for _, s := range buf {
		assert.Equal(t, 0.0, s)
	}
}

func TestMixSumAndClamp(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()

	for i := 0; i < 2; i++ {
		stream := track.NewMediaStream(track.NewLive(track.Audio, track.ConstantSource(0.8)))
		source, _ := ctx.CreateMediaStreamSource(stream)
		gain, _ := ctx.CreateGain()
		assert.Nil(t, source.Connect(gain))
		assert.Nil(t, gain.Connect(dest))
	}

	buf := make([]float64, 4)
	_, err := mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	for _, s := range buf {
		assert.Equal(t, 1.0, s) // 1.6 clamped to full scale
	}
}

func TestSilentContributions(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()

	disabled := track.NewLive(track.Audio, track.ConstantSource(0.5))
	disabled.SetEnabled(false)
	stream := track.NewMediaStream(
		disabled,
		mock.NewTrack("no-samples", track.Audio),
		track.NewLive(track.Video, track.ConstantSource(0.9)),
	)
	source, _ := ctx.CreateMediaStreamSource(stream)
	gain, _ := ctx.CreateGain()
	assert.Nil(t, source.Connect(gain))
	assert.Nil(t, gain.Connect(dest))

	// a muted track, a track without sample access and a video track
	// all contribute silence
	buf := make([]float64, 4)
	_, err := mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	for _, s := range buf {
		assert.Equal(t, 0.0, s)
	}
}

func TestAnalyser(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	analyser, err := ctx.CreateAnalyser()
	assert.Nil(t, err)
	assert.Equal(t, 1024, analyser.FrequencyBinCount())

	// unconnected analyser reads silence
	buf := make([]byte, analyser.FrequencyBinCount())
	read := analyser.ByteTimeDomainData(buf)
	assert.Equal(t, len(buf), read)
	assert.Equal(t, byte(128), buf[0])

	stream := track.NewMediaStream(track.NewLive(track.Audio, track.ConstantSource(0.5)))
	source, _ := ctx.CreateMediaStreamSource(stream)
	assert.Nil(t, source.Connect(analyser))
	read = analyser.ByteTimeDomainData(buf)
	assert.Equal(t, len(buf), read)
	for _, b := range buf {
		assert.Equal(t, byte(192), b)
	}

	// reads are capped at the bin count
	long := make([]byte, analyser.FrequencyBinCount()*2)
	assert.Equal(t, analyser.FrequencyBinCount(), analyser.ByteTimeDomainData(long))
}

func TestInvalidConnections(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()
	gain, _ := ctx.CreateGain()
	source, _ := ctx.CreateMediaStreamSource(track.NewMediaStream())

	// sources accept no input
	assert.Equal(t, graph.ErrInvalidConnection, gain.Connect(source))
	// destination is terminal
	assert.Equal(t, graph.ErrInvalidConnection, dest.Connect(gain))

	other := newContext(t, engine.Factory{})
	foreign, _ := other.CreateGain()
	assert.Equal(t, engine.ErrForeignNode, gain.Connect(foreign))
}

func TestStates(t *testing.T) {
	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()
	stream := track.NewMediaStream(track.NewLive(track.Audio, track.ConstantSource(0.5)))
	source, _ := ctx.CreateMediaStreamSource(stream)
	gain, _ := ctx.CreateGain()
	assert.Nil(t, source.Connect(gain))
	assert.Nil(t, gain.Connect(dest))

	var transitions []graph.State
	ctx.OnStateChange(func(s graph.State) {
		transitions = append(transitions, s)
	})

	buf := make([]float64, 4)
	assert.Nil(t, ctx.Suspend())
	assert.Equal(t, graph.Suspended, ctx.State())
	_, err := mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	assert.Equal(t, 0.0, buf[0])

	assert.Nil(t, ctx.Resume())
	assert.Equal(t, graph.Running, ctx.State())
	_, err = mixedSource(t, dest).ReadSamples(buf)
	assert.Nil(t, err)
	assert.Equal(t, 0.5, buf[0])

	assert.Nil(t, ctx.Interrupt())
	assert.Equal(t, graph.Interrupted, ctx.State())

	assert.Equal(t, []graph.State{graph.Suspended, graph.Running, graph.Interrupted}, transitions)
}

func TestClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := newContext(t, engine.Factory{})
	dest, _ := ctx.CreateMediaStreamDestination()
	mixed := mixedSource(t, dest)

	assert.Nil(t, <-ctx.Close())
	assert.Equal(t, graph.Closed, ctx.State())
	assert.Equal(t, graph.ErrContextClosed, <-ctx.Close())

	_, err := ctx.CreateGain()
	assert.Equal(t, graph.ErrContextClosed, err)
	_, err = ctx.CreateMediaStreamSource(track.NewMediaStream())
	assert.Equal(t, graph.ErrContextClosed, err)
	_, err = ctx.CreateMediaStreamDestination()
	assert.Equal(t, graph.ErrContextClosed, err)
	_, err = ctx.CreateAnalyser()
	assert.Equal(t, graph.ErrContextClosed, err)

	assert.Equal(t, graph.ErrContextClosed, ctx.Suspend())
	assert.Equal(t, graph.ErrContextClosed, ctx.Resume())

	buf := make([]float64, 4)
	_, err = mixed.ReadSamples(buf)
	assert.Equal(t, graph.ErrContextClosed, err)
}
