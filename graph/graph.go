// Package graph defines the audio-processing capability surface the
// mixer is built on: a context owning a graph of source, gain,
// destination and analyser nodes. Implementations render the signal;
// the mixer only wires nodes and keeps track bookkeeping.
package graph

import (
	"errors"

	"github.com/abdulrabbt/audio-track-mixer/track"
)

// Graph capability errors.
var (
	// ErrStreamDestinationUnsupported is returned when the context
	// cannot produce a media-stream destination node.
	ErrStreamDestinationUnsupported = errors.New("media stream destination is not supported")
	// ErrContextClosed is returned on any operation against a closed
	// context.
	ErrContextClosed = errors.New("context is closed")
	// ErrInvalidConnection is returned when a node cannot accept the
	// requested connection.
	ErrInvalidConnection = errors.New("node does not accept this connection")
)

// State of the audio-processing context.
type State int

const (
	// Running context renders signal.
	Running State = iota
	// Suspended context renders silence until resumed.
	Suspended
	// Interrupted is a platform quirk: the host revoked the audio
	// output, a resume request may recover it.
	Interrupted
	// Closed context has released its resources.
	Closed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Interrupted:
		return "interrupted"
	case Closed:
		return "closed"
	}
	return "unknown"
}

type (
	// ContextFactory resolves the audio-processing capability once at
	// startup. It returns a usable context or an error when the host
	// cannot provide one.
	ContextFactory interface {
		NewContext() (Context, error)
	}

	// Context owns an audio graph. All node constructors fail with
	// ErrContextClosed after Close.
	Context interface {
		// CreateGain returns a new gain node with unity gain.
		CreateGain() (GainNode, error)
		// CreateMediaStreamSource returns a node feeding the graph
		// from audio tracks of the provided stream.
		CreateMediaStreamSource(s *track.MediaStream) (SourceNode, error)
		// CreateMediaStreamDestination returns a node exposing the
		// rendered signal as a live media stream, or
		// ErrStreamDestinationUnsupported.
		CreateMediaStreamDestination() (DestinationNode, error)
		// CreateAnalyser returns a node sampling the time-domain
		// signal of its input.
		CreateAnalyser() (AnalyserNode, error)
		// State returns the current context state.
		State() State
		// OnStateChange registers a handler invoked on every state
		// transition.
		OnStateChange(fn func(State))
		// Resume requests rendering to continue after Suspended or
		// Interrupted.
		Resume() error
		// Close releases the context. The returned channel completes
		// exactly once with the release result.
		Close() <-chan error
	}

	// Node is a connectable vertex of the audio graph.
	Node interface {
		Connect(dst Node) error
		Disconnect(dst Node) error
	}

	// SourceNode feeds the graph from a media stream.
	SourceNode interface {
		Node
	}

	// GainNode scales the signal passing through it.
	GainNode interface {
		Node
		Gain() float64
		SetGain(gain float64)
	}

	// DestinationNode sums all connected inputs into a single mixed
	// audio track carried by its stream.
	DestinationNode interface {
		Node
		Stream() *track.MediaStream
	}

	// AnalyserNode samples its input signal. ByteTimeDomainData fills
	// dst with unsigned bytes centered at 128 (silence) and returns
	// the number of samples written. Dst is expected to hold
	// FrequencyBinCount bytes.
	AnalyserNode interface {
		Node
		FrequencyBinCount() int
		ByteTimeDomainData(dst []byte) int
	}
)
