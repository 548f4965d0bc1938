// Package topk spots the clients that dominate request traffic with a
// sliding-window top-k sketch.
package topk

import (
	"sync"
	"time"

	"github.com/keilerkonzept/topk/sliding"
)

type SketchParams struct {
	// K is the number of heavy hitters tracked.
	K int
	// WindowSize is the number of ticks in the sliding window.
	WindowSize int
	Width      int
	Depth      int
	// TickSize is the number of requests per tick.
	TickSize uint64
	// MaxSharePercent of the window's requests a single client may send.
	MaxSharePercent int
	// ActivationRPS is the request rate below which nobody is reported,
	// however dominant.
	ActivationRPS int
}

// TopKSketch is safe for concurrent use.
type TopKSketch struct {
	mu              sync.Mutex
	sketch          *sliding.Sketch
	tickSize        uint64
	tickReq         uint64
	lastTick        time.Time
	maxSharePercent int
	activationRPS   int
	threshold       uint32

	now func() time.Time
}

func New(params SketchParams) *TopKSketch {
	if params.TickSize == 0 {
		params.TickSize = 1000
	}
	s := sliding.New(params.K, params.WindowSize, sliding.WithWidth(params.Width), sliding.WithDepth(params.Depth))

	windowCapacity := uint64(params.WindowSize) * params.TickSize
	return &TopKSketch{
		sketch:          s,
		tickSize:        params.TickSize,
		maxSharePercent: params.MaxSharePercent,
		activationRPS:   params.ActivationRPS,
		threshold:       uint32(windowCapacity * uint64(params.MaxSharePercent) / 100),
		lastTick:        time.Now(),
		now:             time.Now,
	}
}

// ProcessTick counts one request from client. When the request completes
// a tick and the tick's rate reached ActivationRPS, it returns the clients
// whose count in the window exceeds MaxSharePercent of its capacity.
func (cs *TopKSketch) ProcessTick(client string) []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.sketch.Incr(client)
	cs.tickReq++
	if cs.tickReq < cs.tickSize {
		return nil
	}

	now := cs.now()
	elapsed := now.Sub(cs.lastTick)
	cs.lastTick = now
	cs.tickReq = 0
	cs.sketch.Tick()

	if elapsed > 0 && float64(cs.tickSize)/elapsed.Seconds() < float64(cs.activationRPS) {
		return nil
	}

	var heavy []string
	for _, item := range cs.sketch.SortedSlice() {
		if item.Count <= cs.threshold {
			break
		}
		heavy = append(heavy, item.Item)
	}
	return heavy
}
