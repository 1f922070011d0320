package engine

import (
	"sync"

	"github.com/abdulrabbt/audio-track-mixer/graph"
	"github.com/abdulrabbt/audio-track-mixer/track"
)

type (
	// renderer produces one block of signal. Render overwrites dst
	// completely.
	renderer interface {
		render(dst []float64)
	}

	// sink is a node that accepts incoming connections.
	sink interface {
		attach(r renderer)
		detach(r renderer)
		context() *Context
	}
)

// baseNode binds a node to its owning context.
type baseNode struct {
	ctx *Context
}

func (n *baseNode) context() *Context {
	return n.ctx
}

// inputs manages incoming connections of a node and sums their
// signal.
type inputs struct {
	m       sync.Mutex
	list    []renderer
	scratch []float64
}

func (in *inputs) attach(r renderer) {
	in.m.Lock()
	defer in.m.Unlock()
	in.list = append(in.list, r)
}

func (in *inputs) detach(r renderer) {
	in.m.Lock()
	defer in.m.Unlock()
	for i, connected := range in.list {
		if connected == r {
			in.list = append(in.list[:i], in.list[i+1:]...)
			return
		}
	}
}

// sum renders every input and accumulates the result into dst.
func (in *inputs) sum(dst []float64) {
	in.m.Lock()
	defer in.m.Unlock()
	zero(dst)
	if len(in.scratch) < len(dst) {
		in.scratch = make([]float64, len(dst))
	}
	tmp := in.scratch[:len(dst)]
	for _, r := range in.list {
		r.render(tmp)
		for i := range dst {
			dst[i] += tmp[i]
		}
	}
}

func connect(ctx *Context, src renderer, dst graph.Node) error {
	if ctx.closed() {
		return graph.ErrContextClosed
	}
	s, ok := dst.(sink)
	if !ok {
		return graph.ErrInvalidConnection
	}
	if s.context() != ctx {
		return ErrForeignNode
	}
	s.attach(src)
	return nil
}

func disconnect(ctx *Context, src renderer, dst graph.Node) error {
	if ctx.closed() {
		return graph.ErrContextClosed
	}
	s, ok := dst.(sink)
	if !ok {
		return graph.ErrInvalidConnection
	}
	if s.context() != ctx {
		return ErrForeignNode
	}
	s.detach(src)
	return nil
}

// CreateGain returns a new gain node with unity gain.
func (c *Context) CreateGain() (graph.GainNode, error) {
	if c.closed() {
		return nil, graph.ErrContextClosed
	}
	n := &gainNode{baseNode: baseNode{ctx: c}, gain: 1}
	n.scratch = make([]float64, c.bufferSize)
	return n, nil
}

// CreateMediaStreamSource returns a node feeding the graph from audio
// tracks of the provided stream.
func (c *Context) CreateMediaStreamSource(s *track.MediaStream) (graph.SourceNode, error) {
	if c.closed() {
		return nil, graph.ErrContextClosed
	}
	return &sourceNode{
		baseNode: baseNode{ctx: c},
		stream:   s,
		scratch:  make([]float64, c.bufferSize),
	}, nil
}

// CreateMediaStreamDestination returns a node exposing the rendered
// mix as a live media stream with a single audio track.
func (c *Context) CreateMediaStreamDestination() (graph.DestinationNode, error) {
	if c.closed() {
		return nil, graph.ErrContextClosed
	}
	d := &destinationNode{baseNode: baseNode{ctx: c}}
	d.scratch = make([]float64, c.bufferSize)
	d.out = track.NewLive(track.Audio, destinationSource{d})
	d.stream = track.NewMediaStream(d.out)
	return d, nil
}

// CreateAnalyser returns a node sampling the time-domain signal of
// its input.
func (c *Context) CreateAnalyser() (graph.AnalyserNode, error) {
	if c.closed() {
		return nil, graph.ErrContextClosed
	}
	n := &analyserNode{baseNode: baseNode{ctx: c}}
	n.scratch = make([]float64, c.bufferSize)
	n.floats = make([]float64, fftSize/2)
	return n, nil
}

// sourceNode feeds the graph from audio tracks of a media stream.
// Tracks without sample access contribute silence.
type sourceNode struct {
	baseNode
	stream *track.MediaStream

	m       sync.Mutex
	scratch []float64
}

func (n *sourceNode) render(dst []float64) {
	n.m.Lock()
	defer n.m.Unlock()
	zero(dst)
	if len(n.scratch) < len(dst) {
		n.scratch = make([]float64, len(dst))
	}
	tmp := n.scratch[:len(dst)]
	for _, t := range n.stream.AudioTracks() {
		src, ok := t.(track.Source)
		if !ok {
			continue
		}
		read, err := src.ReadSamples(tmp)
		if err != nil && read == 0 {
			continue
		}
		for i := 0; i < read && i < len(dst); i++ {
			dst[i] += tmp[i]
		}
	}
}

func (n *sourceNode) Connect(dst graph.Node) error {
	return connect(n.ctx, n, dst)
}

func (n *sourceNode) Disconnect(dst graph.Node) error {
	return disconnect(n.ctx, n, dst)
}

// gainNode scales the summed signal of its inputs.
type gainNode struct {
	baseNode
	inputs

	gm   sync.Mutex
	gain float64
}

func (n *gainNode) Gain() float64 {
	n.gm.Lock()
	defer n.gm.Unlock()
	return n.gain
}

func (n *gainNode) SetGain(gain float64) {
	n.gm.Lock()
	defer n.gm.Unlock()
	n.gain = gain
}

func (n *gainNode) render(dst []float64) {
	n.sum(dst)
	gain := n.Gain()
	for i := range dst {
		dst[i] *= gain
	}
}

func (n *gainNode) Connect(dst graph.Node) error {
	return connect(n.ctx, n, dst)
}

func (n *gainNode) Disconnect(dst graph.Node) error {
	return disconnect(n.ctx, n, dst)
}

// destinationNode sums all connected inputs into a single mixed audio
// track. It is terminal: it cannot be connected onward, the mix is
// read through its stream.
type destinationNode struct {
	baseNode
	inputs
	stream *track.MediaStream
	out    *track.Live
}

func (d *destinationNode) Connect(dst graph.Node) error {
	return graph.ErrInvalidConnection
}

func (d *destinationNode) Disconnect(dst graph.Node) error {
	return graph.ErrInvalidConnection
}

func (d *destinationNode) Stream() *track.MediaStream {
	return d.stream
}

// destinationSource renders the mix on every read of the mixed track.
type destinationSource struct {
	d *destinationNode
}

func (s destinationSource) ReadSamples(dst []float64) (int, error) {
	if s.d.ctx.closed() {
		return 0, graph.ErrContextClosed
	}
	if !s.d.ctx.rendering() {
		zero(dst)
		return len(dst), nil
	}
	s.d.sum(dst)
	for i := range dst {
		dst[i] = clamp(dst[i])
	}
	return len(dst), nil
}

// analyserNode samples the time-domain signal of its inputs. It also
// passes the signal through, so it can be wired mid-graph.
type analyserNode struct {
	baseNode
	inputs

	am     sync.Mutex
	floats []float64
}

func (n *analyserNode) FrequencyBinCount() int {
	return fftSize / 2
}

func (n *analyserNode) ByteTimeDomainData(dst []byte) int {
	if n.ctx.closed() {
		return 0
	}
	if len(dst) > n.FrequencyBinCount() {
		dst = dst[:n.FrequencyBinCount()]
	}
	if !n.ctx.rendering() {
		for i := range dst {
			dst[i] = 128
		}
		return len(dst)
	}
	n.am.Lock()
	defer n.am.Unlock()
	if len(n.floats) < len(dst) {
		n.floats = make([]float64, len(dst))
	}
	buf := n.floats[:len(dst)]
	n.sum(buf)
	for i := range dst {
		dst[i] = byteSample(buf[i])
	}
	return len(dst)
}

func (n *analyserNode) render(dst []float64) {
	n.sum(dst)
}

func (n *analyserNode) Connect(dst graph.Node) error {
	return connect(n.ctx, n, dst)
}

func (n *analyserNode) Disconnect(dst graph.Node) error {
	return disconnect(n.ctx, n, dst)
}

// byteSample converts a [-1, 1] sample to an unsigned byte centered
// at 128.
func byteSample(s float64) byte {
	v := 128 + int(clamp(s)*128)
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return byte(v)
}

func clamp(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

func zero(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
}
