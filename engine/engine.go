// Package engine implements the graph capability surface in software.
// Rendering is pull-based: reading the destination's mixed track or an
// analyser renders one block of signal synchronously. Only context
// release is asynchronous.
package engine

import (
	"errors"
	"sync"

	"github.com/abdulrabbt/audio-track-mixer/graph"
)

const (
	defaultSampleRate = 44100
	defaultBufferSize = 512

	fftSize = 2048
)

// ErrForeignNode is returned when nodes of different contexts are
// connected.
var ErrForeignNode = errors.New("node belongs to another context")

// Factory resolves a software audio context. Zero values fall back to
// defaults.
type Factory struct {
	SampleRate int
	BufferSize int
}

// NewContext returns a new running context.
func (f Factory) NewContext() (graph.Context, error) {
	sampleRate := f.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}
	bufferSize := f.BufferSize
	if bufferSize == 0 {
		bufferSize = defaultBufferSize
	}
	return &Context{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		state:      graph.Running,
	}, nil
}

// Context is a software audio-processing context.
type Context struct {
	sampleRate int
	bufferSize int

	m        sync.Mutex
	state    graph.State
	handlers []func(graph.State)
}

// SampleRate returns the context sample rate in Hz.
func (c *Context) SampleRate() int {
	return c.sampleRate
}

// BufferSize returns the render block size in samples.
func (c *Context) BufferSize() int {
	return c.bufferSize
}

// State returns the current context state.
func (c *Context) State() graph.State {
	c.m.Lock()
	defer c.m.Unlock()
	return c.state
}

// OnStateChange registers a handler invoked on every state transition.
func (c *Context) OnStateChange(fn func(graph.State)) {
	c.m.Lock()
	defer c.m.Unlock()
	c.handlers = append(c.handlers, fn)
}

// setState transitions the context and notifies handlers outside the
// lock, so that a handler may call back into the context.
func (c *Context) setState(s graph.State) {
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

// Suspend stops rendering, the graph produces silence until resumed.
func (c *Context) Suspend() error {
	if c.State() == graph.Closed {
		return graph.ErrContextClosed
	}
	c.setState(graph.Suspended)
	return nil
}

// Interrupt simulates the host revoking audio output, e.g. on app
// focus switch. Rendering produces silence until resumed.
func (c *Context) Interrupt() error {
	if c.State() == graph.Closed {
		return graph.ErrContextClosed
	}
	c.setState(graph.Interrupted)
	return nil
}

// Resume requests rendering to continue.
func (c *Context) Resume() error {
	if c.State() == graph.Closed {
		return graph.ErrContextClosed
	}
	c.setState(graph.Running)
	return nil
}

// Close releases the context. The returned channel completes exactly
// once: nil on release, graph.ErrContextClosed if the context was
// already closed.
func (c *Context) Close() <-chan error {
	errc := make(chan error, 1)
	go func() {
		if c.State() == graph.Closed {
			errc <- graph.ErrContextClosed
			return
		}
		c.setState(graph.Closed)
		errc <- nil
	}()
	return errc
}

// rendering returns true if the graph currently produces signal.
func (c *Context) rendering() bool {
	return c.State() == graph.Running
}

func (c *Context) closed() bool {
	return c.State() == graph.Closed
}
