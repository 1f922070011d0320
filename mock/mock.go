// Package mock provides a fake audio-graph backend. It records every
// node, connection and state transition, so mixer tests can assert
// wiring without rendering any signal.
package mock

import (
	"sync"

	"github.com/abdulrabbt/audio-track-mixer/graph"
	"github.com/abdulrabbt/audio-track-mixer/track"
)

// Factory resolves mock contexts. Err fails the resolution itself,
// DestinationErr fails destination creation on every context.
type Factory struct {
	Err            error
	DestinationErr error

	Contexts []*Context
}

// NewContext returns a new mock context and remembers it.
func (f *Factory) NewContext() (graph.Context, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	c := &Context{
		state:          graph.Running,
		destinationErr: f.DestinationErr,
	}
	f.Contexts = append(f.Contexts, c)
	return c, nil
}

// Connection is a recorded node pair.
type Connection struct {
	Src graph.Node
	Dst graph.Node
}

// Context is a fake audio-processing context.
type Context struct {
	m              sync.Mutex
	state          graph.State
	handlers       []func(graph.State)
	destinationErr error

	Gains        []*GainNode
	Sources      []*SourceNode
	Destinations []*DestinationNode
	Analysers    []*AnalyserNode
	Connects     []Connection
	Disconnects  []Connection
	ResumeCalls  int
	CloseCalls   int
}

// CreateGain returns a recording gain node.
func (c *Context) CreateGain() (graph.GainNode, error) {
	if c.State() == graph.Closed {
		return nil, graph.ErrContextClosed
	}
	n := &GainNode{ctx: c, gain: 1}
	c.m.Lock()
	defer c.m.Unlock()
	c.Gains = append(c.Gains, n)
	return n, nil
}

// CreateMediaStreamSource returns a recording source node.
func (c *Context) CreateMediaStreamSource(s *track.MediaStream) (graph.SourceNode, error) {
	if c.State() == graph.Closed {
		return nil, graph.ErrContextClosed
	}
	n := &SourceNode{ctx: c, Stream: s}
	c.m.Lock()
	defer c.m.Unlock()
	c.Sources = append(c.Sources, n)
	return n, nil
}

// CreateMediaStreamDestination returns a recording destination node,
// or the configured capability error.
func (c *Context) CreateMediaStreamDestination() (graph.DestinationNode, error) {
	if c.State() == graph.Closed {
		return nil, graph.ErrContextClosed
	}
	if c.destinationErr != nil {
		return nil, c.destinationErr
	}
	n := &DestinationNode{
		ctx:    c,
		stream: track.NewMediaStream(track.NewLive(track.Audio, track.ConstantSource(0))),
	}
	c.m.Lock()
	defer c.m.Unlock()
	c.Destinations = append(c.Destinations, n)
	return n, nil
}

// CreateAnalyser returns a recording analyser node.
func (c *Context) CreateAnalyser() (graph.AnalyserNode, error) {
	if c.State() == graph.Closed {
		return nil, graph.ErrContextClosed
	}
	n := &AnalyserNode{ctx: c, Bins: 1024}
	c.m.Lock()
	defer c.m.Unlock()
	c.Analysers = append(c.Analysers, n)
	return n, nil
}

// State returns the current state.
func (c *Context) State() graph.State {
	c.m.Lock()
	defer c.m.Unlock()
	return c.state
}

// OnStateChange registers a transition handler.
func (c *Context) OnStateChange(fn func(graph.State)) {
	c.m.Lock()
	defer c.m.Unlock()
	c.handlers = append(c.handlers, fn)
}

// SetState drives a state transition and notifies handlers, so tests
// can simulate platform behaviour like interruption.
func (c *Context) SetState(s graph.State) {
	c.m.Lock()
	if c.state == s {
		c.m.Unlock()
		return
	}
	c.state = s
	handlers := make([]func(graph.State), len(c.handlers))
	copy(handlers, c.handlers)
	c.m.Unlock()
	for _, fn := range handlers {
		fn(s)
	}
}

// Resume records the call and transitions to Running.
func (c *Context) Resume() error {
	c.m.Lock()
	if c.state == graph.Closed {
		c.m.Unlock()
		return graph.ErrContextClosed
	}
	c.ResumeCalls++
	c.m.Unlock()
	c.SetState(graph.Running)
	return nil
}

// Close records the call and completes with nil, or with
// graph.ErrContextClosed when the context is already closed.
func (c *Context) Close() <-chan error {
	errc := make(chan error, 1)
	c.m.Lock()
	c.CloseCalls++
	closed := c.state == graph.Closed
	c.m.Unlock()
	if closed {
		errc <- graph.ErrContextClosed
		return errc
	}
	c.SetState(graph.Closed)
	errc <- nil
	return errc
}

func (c *Context) connect(src, dst graph.Node) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.Connects = append(c.Connects, Connection{Src: src, Dst: dst})
	return nil
}

func (c *Context) disconnect(src, dst graph.Node) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.Disconnects = append(c.Disconnects, Connection{Src: src, Dst: dst})
	return nil
}

// GainNode records its gain value.
type GainNode struct {
	ctx *Context

	m    sync.Mutex
	gain float64
}

// Gain returns the current gain.
func (n *GainNode) Gain() float64 {
	n.m.Lock()
	defer n.m.Unlock()
	return n.gain
}

// SetGain stores the gain.
func (n *GainNode) SetGain(gain float64) {
	n.m.Lock()
	defer n.m.Unlock()
	n.gain = gain
}

// Connect records the connection.
func (n *GainNode) Connect(dst graph.Node) error {
	return n.ctx.connect(n, dst)
}

// Disconnect records the disconnection.
func (n *GainNode) Disconnect(dst graph.Node) error {
	return n.ctx.disconnect(n, dst)
}

// SourceNode remembers the stream it was created from.
type SourceNode struct {
	ctx    *Context
	Stream *track.MediaStream
}

// Connect records the connection.
func (n *SourceNode) Connect(dst graph.Node) error {
	return n.ctx.connect(n, dst)
}

// Disconnect records the disconnection.
func (n *SourceNode) Disconnect(dst graph.Node) error {
	return n.ctx.disconnect(n, dst)
}

// DestinationNode carries a stream with a single silent audio track.
type DestinationNode struct {
	ctx    *Context
	stream *track.MediaStream
}

// Connect records the connection.
func (n *DestinationNode) Connect(dst graph.Node) error {
	return n.ctx.connect(n, dst)
}

// Disconnect records the disconnection.
func (n *DestinationNode) Disconnect(dst graph.Node) error {
	return n.ctx.disconnect(n, dst)
}

// Stream returns the mixed output stream.
func (n *DestinationNode) Stream() *track.MediaStream {
	return n.stream
}

// AnalyserNode replays configured samples. Zero Samples means
// silence.
type AnalyserNode struct {
	ctx  *Context
	Bins int

	m       sync.Mutex
	Samples []byte
}

// Connect records the connection.
func (n *AnalyserNode) Connect(dst graph.Node) error {
	return n.ctx.connect(n, dst)
}

// Disconnect records the disconnection.
func (n *AnalyserNode) Disconnect(dst graph.Node) error {
	return n.ctx.disconnect(n, dst)
}

// FrequencyBinCount returns the configured bin count.
func (n *AnalyserNode) FrequencyBinCount() int {
	return n.Bins
}

// SetSamples replaces the replayed samples.
func (n *AnalyserNode) SetSamples(samples []byte) {
	n.m.Lock()
	defer n.m.Unlock()
	n.Samples = samples
}

// ByteTimeDomainData fills dst with configured samples, padding with
// the silence baseline.
func (n *AnalyserNode) ByteTimeDomainData(dst []byte) int {
	n.m.Lock()
	defer n.m.Unlock()
	copied := copy(dst, n.Samples)
	for i := copied; i < len(dst); i++ {
		dst[i] = 128
	}
	return len(dst)
}
